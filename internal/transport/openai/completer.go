package openai

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/domain"
	"github.com/coldreach-ai/coldreach/internal/metrics"
)

const callCompletion = "completion"

// Completer is a chat-completion provider using the OpenAI-compatible API.
type Completer struct {
	client    *openai.Client
	model     string
	maxTokens int
	user      string
	logger    *zap.Logger
}

// CompleterConfig holds the completion provider settings.
type CompleterConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	User      string
	Logger    *zap.Logger
}

// NewCompleter creates an OpenAI-compatible chat-completion provider.
func NewCompleter(cfg *CompleterConfig) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Completer{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		user:      cfg.User,
		logger:    cfg.Logger,
	}
}

// Complete implements domain.Completer. One prompt, one request, no retries.
func (c *Completer) Complete(ctx context.Context, prompt string, temperature float32) (domain.CompletionResult, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		User:        c.user,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}
	// go-openai omits Temperature when it is exactly 0; nudge it so the API
	// receives an explicit value.
	if req.Temperature == 0 {
		req.Temperature = 1e-8
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(callCompletion, c.model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(callCompletion, c.model, "api_error").Inc()
		return domain.CompletionResult{}, parseAPIError("completion", err)
	}

	metrics.LLMRequestsTotal.WithLabelValues(callCompletion, c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(callCompletion, c.model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(callCompletion, c.model, "prompt").
			Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(callCompletion, c.model, "total").
			Add(float64(resp.Usage.TotalTokens))
	}

	var text string
	if len(resp.Choices) > 0 {
		text = strings.TrimSpace(resp.Choices[0].Message.Content)
	}

	return domain.CompletionResult{
		Text:         text,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}
