// Command loaddoc indexes local files into the document store without going
// through the HTTP upload endpoint. Useful for seeding a fresh database.
package main

import (
	"context"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"nexus-rag-be/internal/config"
	"nexus-rag-be/internal/entity"
	"nexus-rag-be/internal/repository/contract"
	"nexus-rag-be/internal/repository/implementation"
	"nexus-rag-be/pkg/database"
	"nexus-rag-be/pkg/embedding"
	"nexus-rag-be/pkg/embedding/jina"
	"nexus-rag-be/pkg/fileloader"
	"nexus-rag-be/pkg/rag/retrieval"
	"nexus-rag-be/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		color.Yellow("usage: loaddoc <file> [file...]")
		os.Exit(1)
	}

	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embedder = jina.NewJinaProvider(cfg.Ai.JinaAPIKey)
	} else {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	}

	documentRepo := implementation.NewDocumentRepository(db)
	chunkRepo := implementation.NewDocumentChunkRepository(db)

	ctx := context.Background()
	failed := 0
	for _, path := range os.Args[1:] {
		if err := indexFile(ctx, path, cfg, embedder, documentRepo, chunkRepo); err != nil {
			color.Red("✗ %s: %v", path, err)
			failed++
			continue
		}
		color.Green("✓ %s", path)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func indexFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	embedder embedding.EmbeddingProvider,
	documentRepo contract.DocumentRepository,
	chunkRepo contract.DocumentChunkRepository,
) error {
	fileType, err := fileloader.Detect(path)
	if err != nil {
		return err
	}

	text, err := fileloader.Load(path, fileType)
	if err != nil {
		return err
	}

	document := entity.Document{
		Id:       uuid.New(),
		FileName: path,
		FileType: fileType,
		Meta: map[string]interface{}{
			"source": "loaddoc",
		},
		CreatedAt: time.Now(),
	}
	if err := documentRepo.Create(ctx, &document); err != nil {
		return err
	}

	chunks := utils.SplitText(text, cfg.Upload.ChunkSize, cfg.Upload.ChunkOverlap)
	color.Cyan("  %s: %d chunks", path, len(chunks))

	newChunks := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := embedder.Generate(chunk, retrieval.TaskTypeDocument)
		if err != nil {
			return err
		}
		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     document.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	return chunkRepo.CreateBulk(ctx, newChunks)
}
