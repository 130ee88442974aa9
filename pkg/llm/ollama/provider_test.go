package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rmf-policy-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{Message: ollamaMessage{Role: "assistant", Content: "hello"}, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	out, err := p.Generate(context.Background(), "hi", llm.WithTemperature(0), llm.WithModel("qwen2.5"), llm.WithMaxTokens(64))

	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "qwen2.5", got.Model)
	require.NotNil(t, got.Options.Temperature)
	assert.Equal(t, 0.0, *got.Options.Temperature)
	assert.Equal(t, 64, got.Options.NumPredict)
}

func TestOllamaProvider_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   llm.ErrorKind
	}{
		{"overloaded", http.StatusServiceUnavailable, "busy", llm.KindRetryable},
		{"not found", http.StatusNotFound, "model not found", llm.KindFatal},
		{"garbage", http.StatusOK, "<html>", llm.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tt.want, llm.KindOf(err))
		})
	}
}
