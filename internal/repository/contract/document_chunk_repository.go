package contract

import (
	"context"

	"nexus-rag-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps DocumentChunk with its similarity score and the
// owning document's name for provenance.
type ScoredDocumentChunk struct {
	Chunk        *entity.DocumentChunk
	DocumentName string
	Similarity   float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	// SearchSimilar orders chunks by cosine distance to the query vector.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*ScoredDocumentChunk, error)
}
