// internal/groq/client.go
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"matchwise-workers/internal/common/config"
	"matchwise-workers/internal/common/errors"
	chttp "matchwise-workers/internal/common/http"
	"matchwise-workers/internal/common/logger"
)

// Client talks to the GROQ chat-completions API (OpenAI-compatible).
// A single request is made per call; callers decide what to do on failure.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *chttp.Client
	logger      logger.Logger
}

// NewClient creates a GROQ client from configuration.
func NewClient(cfg config.GroqConfig, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  chttp.NewClient(timeout),
		logger:      log,
	}
}

// Enabled reports whether the client has credentials to make remote calls.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
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
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ChatCompletion sends a system+user prompt pair and returns the raw text of
// the first choice. No retries: the caller falls back to local scoring.
func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Enabled() {
		return "", errors.NewRemoteScoringFailedError(fmt.Errorf("GROQ API key not configured"))
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil || strings.Contains(err.Error(), "Client.Timeout") {
			return "", errors.NewRemoteTimeoutError(fmt.Sprintf("after %dms: %v", duration.Milliseconds(), err))
		}
		return "", errors.NewRemoteScoringFailedError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("GROQ request completed", map[string]interface{}{
		"status_code": resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"model":       c.model,
	})

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.NewRemoteScoringFailedError(
			fmt.Errorf("GROQ returned status %d: %s", resp.StatusCode, string(body)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", errors.NewRemoteResponseInvalidError(fmt.Sprintf("failed to decode GROQ response: %v", err))
	}

	if chatResp.Error != nil {
		return "", errors.NewRemoteScoringFailedError(
			fmt.Errorf("GROQ API error (%s): %s", chatResp.Error.Type, chatResp.Error.Message))
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.NewRemoteResponseInvalidError("GROQ response contained no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// StripCodeFences removes markdown code block wrappers some models put
// around JSON output (```json ... ```).
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimSpace(strings.TrimPrefix(content, "```json"))
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimSpace(strings.TrimPrefix(content, "```"))
	}

	if strings.HasSuffix(content, "```") {
		content = strings.TrimSpace(strings.TrimSuffix(content, "```"))
	}

	return content
}
