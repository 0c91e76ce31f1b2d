package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/logger"
	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/pkg/chatcsv"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/githubstore"
)

type IVisualiseService interface {
	UploadToGithub(ctx context.Context, file *multipart.FileHeader) (*dto.UploadToGithubResponse, error)
	GetResults(ctx context.Context, req *dto.GetResultsRequest) (*dto.GetResultsResponse, error)
}

type visualiseService struct {
	github         *githubstore.Client
	chatcsv        *chatcsv.Client
	eventPublisher EventPublisher
	log            logger.ILogger
}

func NewVisualiseService(
	github *githubstore.Client,
	chatcsvClient *chatcsv.Client,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IVisualiseService {
	return &visualiseService{
		github:         github,
		chatcsv:        chatcsvClient,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// UploadToGithub publishes a CSV dataset and returns its raw URL.
func (s *visualiseService) UploadToGithub(ctx context.Context, file *multipart.FileHeader) (*dto.UploadToGithubResponse, error) {
	if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		return nil, serverutils.NewHttpError(fiber.StatusBadRequest, "Invalid file type")
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	url, err := s.github.Upload(ctx, filepath.Base(file.Filename), content)
	if err != nil {
		s.log.Error("visualise", "Dataset upload failed", map[string]interface{}{
			"file_name": file.Filename,
			"error":     err.Error(),
		})
		return nil, err
	}

	s.log.Info("visualise", "Dataset published", map[string]interface{}{
		"file_name":   file.Filename,
		"dataset_url": url,
	})
	s.notify(ctx, events.NewDatasetPublished(filepath.Base(file.Filename), url))

	return &dto.UploadToGithubResponse{DatasetURL: url}, nil
}

func (s *visualiseService) notify(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("visualise", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// GetResults relays the prompt and dataset URL to the chat-with-data service.
func (s *visualiseService) GetResults(ctx context.Context, req *dto.GetResultsRequest) (*dto.GetResultsResponse, error) {
	answer, err := s.chatcsv.Ask(ctx, req.Prompt, req.DatasetURL)
	if err != nil {
		s.log.Error("visualise", "Relay request failed", map[string]interface{}{
			"dataset_url": req.DatasetURL,
			"error":       err.Error(),
		})
		return nil, err
	}
	return &dto.GetResultsResponse{Answer: answer}, nil
}
