// internal/groq/client_test.go
package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchwise-workers/internal/common/config"
	"matchwise-workers/internal/common/errors"
	"matchwise-workers/internal/common/logger"
)

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(config.GroqConfig{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		Model:       "llama-3.3-70b-versatile",
		Timeout:     5000,
		MaxTokens:   1024,
		Temperature: 0.2,
	}, logger.NewNoOpLogger())
}

func TestChatCompletion_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": `{"matches":[]}`}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-key")
	content, err := client.ChatCompletion(context.Background(), "system prompt", "user prompt")

	require.NoError(t, err)
	assert.Equal(t, `{"matches":[]}`, content)
}

func TestChatCompletion_DisabledWithoutAPIKey(t *testing.T) {
	client := newTestClient("http://localhost:0", "")

	assert.False(t, client.Enabled())

	_, err := client.ChatCompletion(context.Background(), "s", "u")
	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteScoringFailed, stdErr.Code)
}

func TestChatCompletion_ErrorResponses(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		body         string
		expectedCode errors.ErrorCode
	}{
		{
			name:         "server error",
			statusCode:   http.StatusInternalServerError,
			body:         `{"error":{"message":"internal"}}`,
			expectedCode: errors.ErrCodeRemoteScoringFailed,
		},
		{
			name:         "rate limited",
			statusCode:   http.StatusTooManyRequests,
			body:         `{"error":{"message":"rate limit exceeded"}}`,
			expectedCode: errors.ErrCodeRemoteScoringFailed,
		},
		{
			name:         "malformed body",
			statusCode:   http.StatusOK,
			body:         `{not json`,
			expectedCode: errors.ErrCodeRemoteResponseInvalid,
		},
		{
			name:         "api error in body",
			statusCode:   http.StatusOK,
			body:         `{"error":{"message":"model overloaded","type":"server_error"}}`,
			expectedCode: errors.ErrCodeRemoteScoringFailed,
		},
		{
			name:         "empty choices",
			statusCode:   http.StatusOK,
			body:         `{"choices":[]}`,
			expectedCode: errors.ErrCodeRemoteResponseInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "test-key")
			_, err := client.ChatCompletion(context.Background(), "s", "u")

			require.Error(t, err)
			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestChatCompletion_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"choices":[{"message":{"content":"late"}}]}`))
	}))
	defer server.Close()

	client := NewClient(config.GroqConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "llama-3.3-70b-versatile",
		Timeout: 50,
	}, logger.NewNoOpLogger())

	_, err := client.ChatCompletion(context.Background(), "s", "u")

	require.Error(t, err)
	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRemoteTimeout, stdErr.Code)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading whitespace", "  \n```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"unterminated fence", "```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripCodeFences(tt.input))
		})
	}
}
