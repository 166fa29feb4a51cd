package extract

import (
	"context"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Completer is the LLM completion contract consumed by the extractor.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float32) (domain.CompletionResult, error)
}
