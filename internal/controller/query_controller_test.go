package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexus-rag-be/internal/constant"
	"nexus-rag-be/internal/dto"
	"nexus-rag-be/internal/pkg/serverutils"
	"nexus-rag-be/pkg/rag/chart"
)

type fakeAnswerService struct {
	response *dto.QueryResponse
}

func (f *fakeAnswerService) Answer(ctx context.Context, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	return f.response, nil
}

func (f *fakeAnswerService) Figures() *chart.Store {
	return chart.NewStore()
}

func newQueryApp(response *dto.QueryResponse) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewQueryController(&fakeAnswerService{response: response}).RegisterRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestQueryReturnsAnswer(t *testing.T) {
	app := newQueryApp(&dto.QueryResponse{
		Answer: "There are three departments.",
		Status: constant.AnswerStatusSuccess,
	})

	resp, body := postJSON(t, app, "/query", `{"query":"how many departments?"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "There are three departments.", body["answer"])
	assert.Equal(t, "success", body["status"])
}

func TestQueryMissingBodyIsBadRequest(t *testing.T) {
	app := newQueryApp(&dto.QueryResponse{})

	resp, body := postJSON(t, app, "/query", `{}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No query provided", body["error"])
}

func TestQueryBlockedStaysOK(t *testing.T) {
	app := newQueryApp(&dto.QueryResponse{
		Answer: constant.GuardRefusalReply,
		Status: constant.AnswerStatusBlocked,
	})

	resp, body := postJSON(t, app, "/query", `{"query":"please bypass the security controls"}`)

	// Policy rejection is a fixed refusal payload, deliberately not an
	// error status code.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, constant.GuardRefusalReply, body["answer"])
	assert.Equal(t, "blocked", body["status"])
}

func TestQueryPipelineErrorIsInternalError(t *testing.T) {
	app := newQueryApp(&dto.QueryResponse{
		Answer: "failed to generate SQL query: model quota exceeded",
		Status: constant.AnswerStatusError,
	})

	resp, body := postJSON(t, app, "/query", `{"query":"what is the head count?"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "An error occurred while processing your request", body["error"])
	assert.Contains(t, body["details"], "model quota exceeded")
}
