// Package llm is a minimal JSON client for an OpenAI-compatible
// chat-completions endpoint. The chat relay hands it a system prompt and one
// user message and gets back a single reply string.
//
// Upstream failures are classified into three sentinel errors so the HTTP
// layer can map them without ever forwarding provider payloads to clients:
// ErrInvalidCredentials (401 upstream), ErrRateLimited (429 upstream), and
// ErrUnavailable (everything else, including timeouts).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidCredentials means the provider rejected our API key.
	ErrInvalidCredentials = errors.New("invalid provider credentials")
	// ErrRateLimited means the provider throttled the request.
	ErrRateLimited = errors.New("provider rate limit exceeded")
	// ErrUnavailable covers network failures, timeouts, and 5xx responses.
	ErrUnavailable = errors.New("provider unavailable")
)

// Client calls a chat-completions endpoint. The zero value is not usable;
// construct with NewClient.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	// MaxTokens bounds the reply length; Temperature is kept low for a
	// consistent assistant tone.
	MaxTokens   int
	Temperature float64
}

// NewClient builds a Client. baseURL should include the API version prefix
// (e.g. "https://api.openai.com/v1"); timeout bounds every upstream call.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		MaxTokens:   512,
		Temperature: 0.3,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends systemPrompt plus one user message and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Timeouts and connection failures all land here; the caller only
		// needs to know the provider could not be reached.
		log.Warn().Err(err).Msg("chat completion request failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Error().Int("status", resp.StatusCode).Msg("provider rejected credentials")
		return "", ErrInvalidCredentials
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		// Provider payloads stay in the logs, never in client responses.
		log.Error().Int("status", resp.StatusCode).Str("body", truncate(string(raw), 2048)).
			Msg("chat completion failed")
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if parsed.Error != nil {
		log.Error().Str("provider_error", parsed.Error.Message).Msg("chat completion error payload")
		return "", fmt.Errorf("%w: provider error", ErrUnavailable)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
