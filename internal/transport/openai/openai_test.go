package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/domain"
	"github.com/coldreach-ai/coldreach/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterLLMMetrics()
	os.Exit(m.Run())
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingItem `json:"data"`
	Model  string          `json:"model"`
	Usage  usage           `json:"usage"`
}

type embeddingItem struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// chatResponse mirrors the chat-completion response.
type chatResponse struct {
	Object  string `json:"object"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage usage `json:"usage"`
}

func TestEmbedder_BatchEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		resp := embeddingResponse{Object: "list", Model: "test-model"}
		resp.Data = []embeddingItem{
			{Object: "embedding", Embedding: []float32{0.1, 0.2}, Index: 0},
			{Object: "embedding", Embedding: []float32{0.3, 0.4}, Index: 1},
		}
		resp.Usage = usage{PromptTokens: 12, TotalTokens: 12}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	emb := NewEmbedder(&EmbedderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	result, err := emb.BatchEmbed(context.Background(), []string{"python, go", "kubernetes"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(result.Embeddings) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(result.Embeddings))
	}
	if result.TotalTokens != 12 {
		t.Errorf("TotalTokens = %d, want 12", result.TotalTokens)
	}
}

func TestEmbedder_ShortResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := embeddingResponse{Object: "list", Model: "test-model"}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	emb := NewEmbedder(&EmbedderConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestCompleter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var resp chatResponse
		resp.Object = "chat.completion"
		resp.Model = "test-model"
		resp.Choices = append(resp.Choices, struct {
			Index   int `json:"index"`
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		}{})
		resp.Choices[0].Message.Role = "assistant"
		resp.Choices[0].Message.Content = "  Dear hiring team,\n\n...  "
		resp.Choices[0].FinishReason = "stop"
		resp.Usage = usage{PromptTokens: 50, TotalTokens: 90}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	comp := NewCompleter(&CompleterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	result, err := comp.Complete(context.Background(), "write an email", 0.7)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Text != "Dear hiring team,\n\n..." {
		t.Errorf("Text = %q, want trimmed content", result.Text)
	}
	if result.TotalTokens != 90 {
		t.Errorf("TotalTokens = %d, want 90", result.TotalTokens)
	}
}

func TestCompleter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit"}}`))
	}))
	defer server.Close()

	comp := NewCompleter(&CompleterConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := comp.Complete(context.Background(), "write an email", 0.7)
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}
