package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// CompletionClient is the text-completion capability boundary. The
// engine behind it is externally managed; this package only sends
// prompts and receives completions.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// ServerClient talks to a llama.cpp-style completion server. A single
// local model instance is not reentrant, so calls are serialized with
// a mutex regardless of how many workers hold the client.
type ServerClient struct {
	baseURL    string
	httpClient *http.Client
	mu         sync.Mutex
}

var _ CompletionClient = (*ServerClient)(nil)

func NewServerClient(baseURL string, httpClient *http.Client) *ServerClient {
	return &ServerClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type completionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

type completionResponse struct {
	Content string `json:"content"`
}

func (c *ServerClient) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := json.Marshal(completionRequest{
		Prompt:      prompt,
		NPredict:    maxTokens,
		Temperature: temperature,
		Stop:        []string{"\n\n###"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion server error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion server returned %d: %s", resp.StatusCode, string(detail))
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}

	return cr.Content, nil
}
