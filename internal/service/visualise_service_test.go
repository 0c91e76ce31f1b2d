package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/pkg/chatcsv"
	"nexus-rag-be/pkg/events"
	"nexus-rag-be/pkg/githubstore"
)

func newVisualiseService(t *testing.T, eventPub EventPublisher) IVisualiseService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	github := githubstore.NewClient(server.URL, "token", "acme", "datasets", "main")
	return NewVisualiseService(github, chatcsv.NewClient("", "key"), eventPub, noopLogger{})
}

func TestUploadToGithubPublishesDatasetEvent(t *testing.T) {
	eventPub := &fakeEventPublisher{}
	svc := newVisualiseService(t, eventPub)

	res, err := svc.UploadToGithub(context.Background(), multipartHeader(t, "sales.csv", "Region,Total\nEMEA,12\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/datasets/main/sales.csv", res.DatasetURL)

	published := eventPub.waitFor(t, events.TypeDatasetPublished)
	assert.Equal(t, "sales.csv", published.Payload()["file_name"])
	assert.Equal(t, res.DatasetURL, published.Payload()["dataset_url"])
}

func TestUploadToGithubRejectsNonCSV(t *testing.T) {
	eventPub := &fakeEventPublisher{}
	svc := newVisualiseService(t, eventPub)

	_, err := svc.UploadToGithub(context.Background(), multipartHeader(t, "notes.txt", "plain text"))

	var httpErr *serverutils.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, fiber.StatusBadRequest, httpErr.Code)
	assert.Equal(t, "Invalid file type", httpErr.Message)
	assert.Empty(t, eventPub.types())
}
