package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/entity"
	"nexus-rag-be/internal/repository/contract"
	"nexus-rag-be/internal/repository/memory"
	"nexus-rag-be/pkg/embedding"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/store"
)

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEventPublisher) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventPublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.EventType()
	}
	return out
}

func (f *fakeEventPublisher) waitFor(t *testing.T, eventType string) events.Event {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		for _, e := range f.events {
			if e.EventType() == eventType {
				f.mu.Unlock()
				return e
			}
		}
		f.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("event %s was never published", eventType)
	return nil
}

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeDocumentRepo struct {
	created []*entity.Document
}

func (f *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	f.created = append(f.created, document)
	return nil
}

func (f *fakeDocumentRepo) FindById(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	return nil, nil
}

func (f *fakeDocumentRepo) FindAll(ctx context.Context) ([]*entity.Document, error) {
	return nil, nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeChunkRepo struct {
	inserted []*entity.DocumentChunk
}

func (f *fakeChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	f.inserted = append(f.inserted, chunk)
	return nil
}

func (f *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	f.inserted = append(f.inserted, chunks...)
	return nil
}

func (f *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}

func (f *fakeChunkRepo) CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	return int64(len(f.inserted)), nil
}

func (f *fakeChunkRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredDocumentChunk, error) {
	return nil, nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func waitForTerminal(t *testing.T, repo *memory.UploadRepository, jobID string) *store.UploadJob {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job, found := repo.Get(jobID); found && job.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not reach a terminal state")
	return nil
}

func TestConsumerProcessesUploadedFile(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	uploadRepo := memory.NewUploadRepository()
	documentRepo := &fakeDocumentRepo{}
	chunkRepo := &fakeChunkRepo{}
	embedder := &fakeEmbedder{}
	eventPub := &fakeEventPublisher{}

	consumer := NewConsumerService(
		pubSub, "test-topic", uploadRepo, documentRepo, chunkRepo,
		embedder, eventPub, 20, 5, noopLogger{},
	)
	require.NoError(t, consumer.Consume(context.Background()))

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("the quick brown fox jumps over the lazy dog"), 0o644))

	job := uploadRepo.Create("notes.txt", "txt")
	payload, err := json.Marshal(dto.ProcessFileMessage{
		FileID:   job.ID,
		FileName: "notes.txt",
		FileType: "txt",
		Path:     path,
	})
	require.NoError(t, err)

	publisher := NewPublisherService("test-topic", pubSub)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	finished := waitForTerminal(t, uploadRepo, job.ID)
	assert.Equal(t, store.StatusCompleted, finished.Status)
	assert.Equal(t, 100, finished.Progress)

	require.Len(t, documentRepo.created, 1)
	assert.Equal(t, "notes.txt", documentRepo.created[0].FileName)
	assert.NotEmpty(t, chunkRepo.inserted)
	assert.Equal(t, len(chunkRepo.inserted), embedder.calls)

	// Source file is removed once indexed.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	processed := eventPub.waitFor(t, events.TypeFileProcessed)
	assert.Equal(t, job.ID, processed.Payload()["file_id"])
	assert.Equal(t, len(chunkRepo.inserted), processed.Payload()["chunks"])
}

func TestConsumerMarksJobOnEmbeddingFailure(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	uploadRepo := memory.NewUploadRepository()

	eventPub := &fakeEventPublisher{}
	consumer := NewConsumerService(
		pubSub, "test-topic", uploadRepo, &fakeDocumentRepo{}, &fakeChunkRepo{},
		&fakeEmbedder{err: errors.New("embedding backend down")}, eventPub, 20, 5, noopLogger{},
	)
	require.NoError(t, consumer.Consume(context.Background()))

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some content to embed"), 0o644))

	job := uploadRepo.Create("notes.txt", "txt")
	payload, _ := json.Marshal(dto.ProcessFileMessage{
		FileID: job.ID, FileName: "notes.txt", FileType: "txt", Path: path,
	})

	publisher := NewPublisherService("test-topic", pubSub)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	finished := waitForTerminal(t, uploadRepo, job.ID)
	assert.Equal(t, store.StatusError, finished.Status)
	assert.Contains(t, finished.Message, "embedding backend down")

	failed := eventPub.waitFor(t, events.TypeFileFailed)
	assert.Contains(t, failed.Payload()["reason"], "embedding backend down")
}
