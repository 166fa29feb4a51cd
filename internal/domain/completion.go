package domain

import "context"

// Completer is the shared LLM text-completion contract between layers.
// Deterministic in interface, non-deterministic in content: one prompt in,
// one textual response out, no retries at this level.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (CompletionResult, error)
}

// CompletionResult carries the model's textual response and token usage.
type CompletionResult struct {
	Text         string
	PromptTokens int
	TotalTokens  int
}
