package service

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/entity"
	"nexus-rag-be/internal/pkg/logger"
	"nexus-rag-be/internal/repository/contract"
	"nexus-rag-be/internal/repository/memory"
	"nexus-rag-be/pkg/embedding"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/fileloader"
	"nexus-rag-be/pkg/rag/retrieval"
	"nexus-rag-be/pkg/store"
	"nexus-rag-be/pkg/utils"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uploadRepo        *memory.UploadRepository
	documentRepo      contract.DocumentRepository
	chunkRepo         contract.DocumentChunkRepository
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    EventPublisher
	chunkSize         int
	chunkOverlap      int
	log               logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uploadRepo *memory.UploadRepository,
	documentRepo contract.DocumentRepository,
	chunkRepo contract.DocumentChunkRepository,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher EventPublisher,
	chunkSize, chunkOverlap int,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uploadRepo:        uploadRepo,
		documentRepo:      documentRepo,
		chunkRepo:         chunkRepo,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
		log:               log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ProcessFileMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.log.Info("consumer", "Processing uploaded file", map[string]interface{}{
		"file_id":   payload.FileID,
		"file_type": payload.FileType,
	})

	if err := cs.process(ctx, payload); err != nil {
		cs.log.Error("consumer", "File processing failed", map[string]interface{}{
			"file_id": payload.FileID,
			"error":   err.Error(),
		})
		cs.uploadRepo.Update(payload.FileID, store.StatusError, 0, err.Error())
		cs.notify(ctx, events.NewFileFailed(payload.FileID, err.Error()))
	}

	// Either way the job state records the outcome; redelivery would only
	// repeat a failed parse.
	msg.Ack()
}

func (cs *consumerService) process(ctx context.Context, payload dto.ProcessFileMessage) error {
	cs.uploadRepo.Update(payload.FileID, store.StatusProcessing, 10, "")

	text, err := fileloader.Load(payload.Path, payload.FileType)
	if err != nil {
		return err
	}
	defer os.Remove(payload.Path)

	document := entity.Document{
		Id:       uuid.New(),
		FileName: payload.FileName,
		FileType: payload.FileType,
		Meta: map[string]interface{}{
			"upload_job_id": payload.FileID,
			"size_bytes":    len(text),
		},
		CreatedAt: time.Now(),
	}
	if err := cs.documentRepo.Create(ctx, &document); err != nil {
		return err
	}

	chunks := utils.SplitText(text, cs.chunkSize, cs.chunkOverlap)
	cs.log.Info("consumer", "Content split into chunks", map[string]interface{}{
		"file_id": payload.FileID,
		"chunks":  len(chunks),
	})

	newChunks := make([]*entity.DocumentChunk, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, retrieval.TaskTypeDocument)
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

		// 10 -> 90 across the embedding loop
		progress := 10 + (80*(i+1))/len(chunks)
		cs.uploadRepo.Update(payload.FileID, store.StatusProcessing, progress, "")
	}

	if err := cs.chunkRepo.CreateBulk(ctx, newChunks); err != nil {
		return err
	}

	cs.uploadRepo.Update(payload.FileID, store.StatusCompleted, 100, "")
	cs.notify(ctx, events.NewFileProcessed(payload.FileID, len(newChunks)))

	cs.log.Info("consumer", "File processed", map[string]interface{}{
		"file_id": payload.FileID,
		"chunks":  len(newChunks),
	})
	return nil
}

// notify publishes to NATS when available; notification delivery is
// auxiliary, so failures are logged and swallowed.
func (cs *consumerService) notify(ctx context.Context, event events.Event) {
	if cs.eventPublisher == nil {
		return
	}
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.log.Warn("consumer", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
