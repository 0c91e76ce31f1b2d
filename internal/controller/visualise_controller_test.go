package controller

import (
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/serverutils"
)

type fakeVisualiseService struct {
	resultsResponse *dto.GetResultsResponse
	resultsCalls    []*dto.GetResultsRequest
}

func (f *fakeVisualiseService) UploadToGithub(ctx context.Context, file *multipart.FileHeader) (*dto.UploadToGithubResponse, error) {
	return &dto.UploadToGithubResponse{}, nil
}

func (f *fakeVisualiseService) GetResults(ctx context.Context, req *dto.GetResultsRequest) (*dto.GetResultsResponse, error) {
	f.resultsCalls = append(f.resultsCalls, req)
	return f.resultsResponse, nil
}

func newVisualiseApp(svc *fakeVisualiseService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewVisualiseController(svc).RegisterRoutes(app)
	return app
}

func TestGetResultsRelaysAnswer(t *testing.T) {
	svc := &fakeVisualiseService{resultsResponse: &dto.GetResultsResponse{Answer: "EMEA leads with 12."}}
	app := newVisualiseApp(svc)

	resp, body := postJSON(t, app, "/get_results",
		`{"prompt":"which region leads?","dataset_url":"https://raw.githubusercontent.com/acme/datasets/main/sales.csv"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "EMEA leads with 12.", body["answer"])
	assert.Len(t, svc.resultsCalls, 1)
}

func TestGetResultsMissingPrompt(t *testing.T) {
	svc := &fakeVisualiseService{}
	app := newVisualiseApp(svc)

	resp, body := postJSON(t, app, "/get_results", `{"dataset_url":"https://example.com/data.csv"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing prompt or dataset URL", body["error"])
	assert.Empty(t, svc.resultsCalls)
}

func TestGetResultsRejectsMalformedDatasetURL(t *testing.T) {
	svc := &fakeVisualiseService{}
	app := newVisualiseApp(svc)

	resp, body := postJSON(t, app, "/get_results", `{"prompt":"x","dataset_url":"::definitely not a url::"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing prompt or dataset URL", body["error"])
	assert.Contains(t, body["details"], "DatasetURL")
	assert.Empty(t, svc.resultsCalls)
}

func TestUploadToGithubRequiresFile(t *testing.T) {
	app := newVisualiseApp(&fakeVisualiseService{})

	resp, body := postJSON(t, app, "/upload_to_github", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file part", body["error"])
}
