package service

import (
	"context"

	"nexus-rag-be/internal/constant"
	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/logger"
	"nexus-rag-be/internal/repository/contract"
	"nexus-rag-be/pkg/embedding"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/llm"
	"nexus-rag-be/pkg/rag/chart"
	"nexus-rag-be/pkg/rag/executor"
	"nexus-rag-be/pkg/rag/retrieval"
)

type IAnswerService interface {
	Answer(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error)
	Figures() *chart.Store
}

type answerService struct {
	pipeline       *executor.Pipeline
	eventPublisher EventPublisher
	log            logger.ILogger
}

// AnswerServiceDeps carries everything the answer pipeline needs. ChunkRepo
// and Embedder may be nil together, which disables the retrieval stage.
type AnswerServiceDeps struct {
	Provider       llm.LLMProvider
	Embedder       embedding.EmbeddingProvider
	ChunkRepo      contract.DocumentChunkRepository
	QueryExecutor  executor.QueryExecutor
	SchemaText     string
	RetrievalTopK  int
	MinCallSec     float64
	EventPublisher EventPublisher
	Logger         logger.ILogger
}

func NewAnswerService(deps AnswerServiceDeps) IAnswerService {
	var passageRetriever executor.PassageRetriever
	if deps.Embedder != nil && deps.ChunkRepo != nil {
		searcher := &chunkSearcher{repo: deps.ChunkRepo}
		passageRetriever = retrieval.NewRetriever(deps.Embedder, searcher, deps.RetrievalTopK)
	}

	pipeline := executor.NewPipeline(executor.Config{
		Provider:        deps.Provider,
		Retriever:       passageRetriever,
		Executor:        deps.QueryExecutor,
		SchemaText:      deps.SchemaText,
		MinCallInterval: deps.MinCallSec,
	})

	return &answerService{
		pipeline:       pipeline,
		eventPublisher: deps.EventPublisher,
		log:            deps.Logger,
	}
}

func (s *answerService) Answer(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	figuresBefore := s.pipeline.Figures().Len()
	result := s.pipeline.Answer(ctx, req.Query)
	if s.pipeline.Figures().Len() > figuresBefore {
		s.notify(ctx, events.NewChartGenerated(req.Query))
	}

	switch result.Status {
	case constant.AnswerStatusBlocked:
		s.log.Warn("answer", "Question blocked by guard", map[string]interface{}{
			"question": req.Query,
		})
	case constant.AnswerStatusError:
		s.log.Error("answer", "Pipeline failed", map[string]interface{}{
			"question": req.Query,
			"error":    result.Text,
		})
	default:
		s.log.Info("answer", "Question answered", map[string]interface{}{
			"question": req.Query,
		})
	}

	return &dto.QueryResponse{
		Answer: result.Text,
		Status: result.Status,
	}, nil
}

func (s *answerService) Figures() *chart.Store {
	return s.pipeline.Figures()
}

func (s *answerService) notify(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("answer", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// chunkSearcher adapts the pgvector chunk repository to the retrieval stage.
type chunkSearcher struct {
	repo contract.DocumentChunkRepository
}

func (s *chunkSearcher) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]retrieval.Passage, error) {
	scored, err := s.repo.SearchSimilar(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	passages := make([]retrieval.Passage, len(scored))
	for i, sc := range scored {
		passages[i] = retrieval.Passage{
			DocumentID:   sc.Chunk.DocumentId.String(),
			DocumentName: sc.DocumentName,
			ChunkIndex:   sc.Chunk.ChunkIndex,
			Content:      sc.Chunk.Content,
			Score:        sc.Similarity,
		}
	}
	return passages, nil
}
