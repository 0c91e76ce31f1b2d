// Package githubstore publishes dataset files to a GitHub repository through
// the contents API, so downstream services can fetch them from a stable raw
// URL.
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const DefaultBaseURL = "https://api.github.com"

type Client struct {
	BaseURL string
	Token   string
	Owner   string
	Repo    string
	Branch  string
	Client  *http.Client
}

func NewClient(baseURL, token, owner, repo, branch string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if branch == "" {
		branch = "main"
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		Owner:   owner,
		Repo:    repo,
		Branch:  branch,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type contentsResponse struct {
	SHA string `json:"sha"`
}

type putContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// Upload creates or updates the file in the repository and returns its
// raw.githubusercontent.com URL. Transient failures are retried.
func (c *Client) Upload(ctx context.Context, filename string, content []byte) (string, error) {
	var rawURL string
	err := retry.Do(
		func() error {
			url, err := c.uploadOnce(ctx, filename, content)
			if err != nil {
				return err
			}
			rawURL = url
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}
	return rawURL, nil
}

func (c *Client) uploadOnce(ctx context.Context, filename string, content []byte) (string, error) {
	sha, err := c.existingSHA(ctx, filename)
	if err != nil {
		return "", err
	}

	message := fmt.Sprintf("Added %s", filename)
	if sha != "" {
		message = fmt.Sprintf("Updated %s", filename)
	}

	body := putContentsRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.Branch,
		SHA:     sha,
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(filename), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", c.Owner, c.Repo, c.Branch, filename), nil
}

// existingSHA returns the blob SHA of the file if it already exists, or empty
// when it does not. The SHA is required by the contents API to update a file.
func (c *Client) existingSHA(ctx context.Context, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(filename), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound:
		return "", nil
	case http.StatusOK:
		var contents contentsResponse
		if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return contents.SHA, nil
	default:
		return "", fmt.Errorf("github API returned status %d", resp.StatusCode)
	}
}

func (c *Client) contentsURL(filename string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.BaseURL, c.Owner, c.Repo, filename)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
}
