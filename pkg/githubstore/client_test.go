package githubstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadCreatesNewFile(t *testing.T) {
	var putBody putContentsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/datasets/contents/data.csv", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusCreated)
		default:
			t.Fatalf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "acme", "datasets", "main")
	url, err := client.Upload(context.Background(), "data.csv", []byte("a,b\n1,2\n"))

	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/datasets/main/data.csv", url)
	assert.Equal(t, "Added data.csv", putBody.Message)
	assert.Empty(t, putBody.SHA)

	decoded, err := base64.StdEncoding.DecodeString(putBody.Content)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(decoded))
}

func TestUploadUpdatesExistingFileWithSHA(t *testing.T) {
	var putBody putContentsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(contentsResponse{SHA: "abc123"})
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&putBody))
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "acme", "datasets", "main")
	url, err := client.Upload(context.Background(), "data.csv", []byte("a,b\n3,4\n"))

	require.NoError(t, err)
	assert.Equal(t, "https://raw.githubusercontent.com/acme/datasets/main/data.csv", url)
	assert.Equal(t, "Updated data.csv", putBody.Message)
	assert.Equal(t, "abc123", putBody.SHA)
}

func TestUploadRetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			attempts++
			if attempts < 2 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", "acme", "datasets", "main")
	url, err := client.Upload(context.Background(), "data.csv", []byte("a\n"))

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, url, "raw.githubusercontent.com")
}
