package retrieval

import (
	"context"
	"fmt"
	"strings"

	"nexus-rag-be/pkg/embedding"
)

// Task types forwarded to the embedding provider so query and document
// vectors land in the same space.
const (
	TaskTypeQuery    = "RETRIEVAL_QUERY"
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
)

// Passage is one retrieved chunk with its provenance and similarity score.
type Passage struct {
	DocumentID   string
	DocumentName string
	ChunkIndex   int
	Content      string
	Score        float64
}

// Searcher finds the passages nearest to a query vector.
type Searcher interface {
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]Passage, error)
}

// Retriever embeds a question and returns its nearest passages.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	searcher Searcher
	topK     int
}

func NewRetriever(embedder embedding.EmbeddingProvider, searcher Searcher, topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		topK:     topK,
	}
}

// Retrieve embeds the question and searches for its nearest chunks.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]Passage, error) {
	resp, err := r.embedder.Generate(question, TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	passages, err := r.searcher.SearchSimilar(ctx, resp.Embedding.Values, r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search passages: %w", err)
	}

	return passages, nil
}

// FormatContext renders passages into the context block consumed by the
// retrieval prompt, separated by blank lines and tagged with their source.
func FormatContext(passages []Passage) string {
	var sb strings.Builder
	for i, p := range passages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if p.DocumentName != "" {
			sb.WriteString(fmt.Sprintf("[%s]\n", p.DocumentName))
		}
		sb.WriteString(p.Content)
	}
	return sb.String()
}
