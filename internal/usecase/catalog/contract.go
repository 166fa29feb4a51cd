package catalog

import (
	"context"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Loader reads the portfolio entries from their static source.
type Loader interface {
	Load() ([]domain.PortfolioEntry, error)
}

// Embedder vectorizes text into embeddings. The same embedder builds the
// index and embeds queries, so both live in the same vector space.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
