package bootstrap

import (
	"log"

	"nexus-rag-be/internal/config"
	"nexus-rag-be/internal/controller"
	"nexus-rag-be/internal/pkg/logger"
	"nexus-rag-be/internal/repository/implementation"
	"nexus-rag-be/internal/repository/memory"
	"nexus-rag-be/internal/service"
	"nexus-rag-be/pkg/chatcsv"
	"nexus-rag-be/pkg/database"
	"nexus-rag-be/pkg/embedding"
	"nexus-rag-be/pkg/embedding/jina"
	"nexus-rag-be/pkg/githubstore"
	"nexus-rag-be/pkg/llm/factory"

	pktNats "nexus-rag-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const processFileTopic = "PROCESS_UPLOADED_FILE"

type Container struct {
	// Controllers
	QueryController     controller.IQueryController
	DocumentController  controller.IDocumentController
	VisualiseController controller.IVisualiseController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	// LLM provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS (auxiliary notifications; the server runs without it)
	var eventPublisher service.EventPublisher
	if natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Repositories
	documentRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db)
	uploadRepo := memory.NewUploadRepository()

	// Services
	publisherService := service.NewPublisherService(processFileTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		processFileTopic,
		uploadRepo,
		documentRepo,
		chunkRepo,
		embeddingProvider,
		eventPublisher,
		cfg.Upload.ChunkSize,
		cfg.Upload.ChunkOverlap,
		sysLogger,
	)

	answerService := service.NewAnswerService(service.AnswerServiceDeps{
		Provider:       llmProvider,
		Embedder:       embeddingProvider,
		ChunkRepo:      chunkRepo,
		QueryExecutor:  database.NewQueryRunner(db),
		SchemaText:     cfg.Database.SchemaDescription,
		RetrievalTopK:  cfg.Ai.RetrievalTopK,
		MinCallSec:     cfg.Ai.MinCallIntervalSec,
		EventPublisher: eventPublisher,
		Logger:         sysLogger,
	})

	documentService := service.NewDocumentService(
		cfg.Upload.Folder,
		uploadRepo,
		publisherService,
		eventPublisher,
		sysLogger,
	)

	visualiseService := service.NewVisualiseService(
		githubstore.NewClient(
			"",
			cfg.Relay.GitHubToken,
			cfg.Relay.GitHubOwner,
			cfg.Relay.GitHubRepo,
			cfg.Relay.GitHubBranch,
		),
		chatcsv.NewClient(cfg.Relay.ChatCSVBaseURL, cfg.Relay.ChatCSVAPIKey),
		eventPublisher,
		sysLogger,
	)

	return &Container{
		QueryController:     controller.NewQueryController(answerService),
		DocumentController:  controller.NewDocumentController(documentService),
		VisualiseController: controller.NewVisualiseController(visualiseService),
		ConsumerService:     consumerService,
	}
}
