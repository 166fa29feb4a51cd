package compose

import (
	"context"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Completer is the LLM completion contract consumed by the composer.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (domain.CompletionResult, error)
}
