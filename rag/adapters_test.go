package rag

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRateLimit(t *testing.T) {
	t.Run("api error with status 429 is tagged", func(t *testing.T) {
		err := tagRateLimit(&openai.APIError{
			Message:        "Rate limit reached",
			HTTPStatusCode: 429,
		})
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("request error with status 429 is tagged", func(t *testing.T) {
		err := tagRateLimit(&openai.RequestError{
			HTTPStatusCode: 429,
			Err:            errors.New("too many requests"),
		})
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("other api errors pass through", func(t *testing.T) {
		orig := &openai.APIError{Message: "bad request", HTTPStatusCode: 400}
		err := tagRateLimit(orig)
		assert.NotErrorIs(t, err, ErrRateLimited)

		var apiErr *openai.APIError
		require.ErrorAs(t, err, &apiErr)
	})

	t.Run("plain errors pass through unchanged", func(t *testing.T) {
		orig := errors.New("connection refused")
		assert.Equal(t, orig, tagRateLimit(orig))
	})
}

func newStubLLM(t *testing.T, handler http.HandlerFunc) *OpenAIDirectLLM {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return NewOpenAIDirectLLMWithClient(openai.NewClientWithConfig(config), "")
}

func TestOpenAIDirectLLM_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the completion content", func(t *testing.T) {
		llm := newStubLLM(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "chatcmpl-1",
				"object": "chat.completion",
				"model": "gpt-3.5-turbo",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}]
			}`))
		})

		got, err := llm.Generate(ctx, "say hello", 60)
		require.NoError(t, err)
		assert.Equal(t, "Hello there", got)
	})

	t.Run("429 responses surface as ErrRateLimited", func(t *testing.T) {
		llm := newStubLLM(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "requests"}}`))
		})

		_, err := llm.Generate(ctx, "say hello", 0)
		assert.ErrorIs(t, err, ErrRateLimited)
	})

	t.Run("empty choice list is an error", func(t *testing.T) {
		llm := newStubLLM(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
		})

		_, err := llm.Generate(ctx, "say hello", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})

	t.Run("empty model defaults to gpt-3.5-turbo", func(t *testing.T) {
		llm := NewOpenAIDirectLLM("test-key", "")
		assert.Equal(t, openai.GPT3Dot5Turbo, llm.model)
	})
}
