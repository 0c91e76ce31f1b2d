package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/logger"
	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/internal/repository/memory"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/fileloader"
)

type IDocumentService interface {
	ProcessFile(ctx context.Context, file *multipart.FileHeader) (*dto.ProcessFileResponse, error)
	Progress(fileID string) (*dto.UploadProgressResponse, error)
}

type documentService struct {
	uploadFolder   string
	uploadRepo     *memory.UploadRepository
	publisher      IPublisherService
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewDocumentService(
	uploadFolder string,
	uploadRepo *memory.UploadRepository,
	publisher IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uploadFolder:   uploadFolder,
		uploadRepo:     uploadRepo,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// ProcessFile stores the upload, registers a job, and queues it for
// asynchronous chunking and indexing. The response carries the job id the
// client polls for progress.
func (s *documentService) ProcessFile(ctx context.Context, file *multipart.FileHeader) (*dto.ProcessFileResponse, error) {
	fileType, err := fileloader.Detect(file.Filename)
	if err != nil {
		return nil, serverutils.NewHttpError(fiber.StatusBadRequest, err.Error())
	}

	job := s.uploadRepo.Create(file.Filename, fileType)

	path := filepath.Join(s.uploadFolder, job.ID+"_"+filepath.Base(file.Filename))
	if err := s.saveFile(file, path); err != nil {
		s.log.Error("upload", "Failed to store uploaded file", map[string]interface{}{
			"file_id": job.ID,
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("failed to store uploaded file: %w", err)
	}

	payload, err := json.Marshal(dto.ProcessFileMessage{
		FileID:   job.ID,
		FileName: file.Filename,
		FileType: fileType,
		Path:     path,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to queue file for processing: %w", err)
	}

	s.log.Info("upload", "File queued for processing", map[string]interface{}{
		"file_id":   job.ID,
		"file_name": file.Filename,
		"file_type": fileType,
	})
	s.notify(ctx, events.NewFileUploaded(job.ID, file.Filename, fileType, path))

	return &dto.ProcessFileResponse{
		Message:  "File uploaded and queued for processing",
		FileType: fileType,
		FileID:   job.ID,
	}, nil
}

// Progress reports the current state of an upload job.
func (s *documentService) Progress(fileID string) (*dto.UploadProgressResponse, error) {
	job, found := s.uploadRepo.Get(fileID)
	if !found {
		return nil, serverutils.NewHttpError(fiber.StatusNotFound, "unknown file id")
	}
	return &dto.UploadProgressResponse{
		Status:   job.Status,
		Progress: job.Progress,
		Message:  job.Message,
	}, nil
}

func (s *documentService) notify(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("upload", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *documentService) saveFile(file *multipart.FileHeader, path string) error {
	if err := os.MkdirAll(s.uploadFolder, 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
