package chatcsv

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreamServer(t *testing.T, status int, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("accept"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-3.5-turbo", body.Model)
		require.Len(t, body.Files, 1)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(status)
		for _, line := range lines {
			_, _ = w.Write([]byte(line + "\n"))
		}
	}))
}

func TestAskCollectsStreamLines(t *testing.T) {
	server := newStreamServer(t, http.StatusOK, []string{
		"The dataset has 891 rows.",
		"",
		"Most passengers embarked at Southampton.",
	})
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	answer, err := client.Ask(context.Background(), "describe the dataset", "https://example.com/data.csv")

	require.NoError(t, err)
	assert.Equal(t, "The dataset has 891 rows.\nMost passengers embarked at Southampton.", answer)
}

func TestAskStripsProviderErrorArtifact(t *testing.T) {
	server := newStreamServer(t, http.StatusOK, []string{
		"An error occurred: 'gpt-3.5-turbo'",
		"The average fare was 32.",
	})
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	answer, err := client.Ask(context.Background(), "average fare?", "https://example.com/data.csv")

	require.NoError(t, err)
	assert.Equal(t, "The average fare was 32.", answer)
}

func TestAskEmptyStreamReturnsFallback(t *testing.T) {
	server := newStreamServer(t, http.StatusOK, []string{
		"An error occurred: 'gpt-3.5-turbo'",
	})
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	answer, err := client.Ask(context.Background(), "anything", "https://example.com/data.csv")

	require.NoError(t, err)
	assert.Equal(t, "I'm sorry, I couldn't process your request. Please try again.", answer)
}

func TestAskNonOKStatusIsAnError(t *testing.T) {
	server := newStreamServer(t, http.StatusBadGateway, nil)
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Ask(context.Background(), "anything", "https://example.com/data.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
