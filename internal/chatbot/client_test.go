package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"renthub/internal/config"
	"renthub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	return New(config.ChatbotConfig{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "meta-llama/llama-3.2-3b-instruct:free",
		MaxTokens:   500,
		Temperature: 0.7,
	})
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "How do I book?", req.Messages[1].Content)
		assert.Equal(t, 500, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Open a listing and press Book."}},
			},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	reply, err := c.Complete(context.Background(), PromptForRole(models.RoleTenant), "How do I book?")
	require.NoError(t, err)
	assert.Equal(t, "Open a listing and press Book.", reply)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited", "type": "rate_limit"},
		})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Complete(context.Background(), "sys", "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Complete(context.Background(), "sys", "msg")
	assert.Error(t, err)
}

func TestCompleteWithoutKey(t *testing.T) {
	c := New(config.ChatbotConfig{BaseURL: "http://localhost"})
	_, err := c.Complete(context.Background(), "sys", "msg")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPromptForRole(t *testing.T) {
	assert.Contains(t, PromptForRole(models.RoleTenant), "TENANT")
	assert.Contains(t, PromptForRole(models.RoleOwner), "OWNER")
	assert.Contains(t, PromptForRole(models.RoleAdmin), "OWNER")
}
