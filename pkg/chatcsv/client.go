// Package chatcsv relays prompts about a hosted CSV dataset to the chatcsv.co
// chat API and collects its streamed response into a single answer.
package chatcsv

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.chatcsv.co/api/v1"
	defaultModel   = "gpt-3.5-turbo"

	// The upstream sometimes interleaves this literal into its stream; it is
	// stripped from the collected answer.
	providerErrorArtifact = "An error occurred: 'gpt-3.5-turbo'"

	// Returned when the stream yields nothing usable.
	emptyAnswerFallback = "I'm sorry, I couldn't process your request. Please try again."
)

type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 180 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Files    []string      `json:"files"`
}

// Ask sends the prompt together with the dataset URL and collects the
// event-stream response into one answer string.
func (c *Client) Ask(ctx context.Context, prompt, datasetURL string) (string, error) {
	reqBody := chatRequest{
		Model: defaultModel,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Files: []string{datasetURL},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chatcsv API returned status %d", resp.StatusCode)
	}

	return collectStream(bufio.NewScanner(resp.Body))
}

// collectStream concatenates non-empty stream lines, strips the provider
// error artifact, and substitutes the fallback when nothing remains.
func collectStream(scanner *bufio.Scanner) (string, error) {
	var sb strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stream: %w", err)
	}

	answer := strings.TrimSpace(strings.ReplaceAll(sb.String(), providerErrorArtifact, ""))
	if answer == "" {
		answer = emptyAnswerFallback
	}
	return answer, nil
}
