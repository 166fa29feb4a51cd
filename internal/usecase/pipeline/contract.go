package pipeline

import (
	"context"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Extractor turns normalized page text into structured postings.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]domain.JobPosting, error)
}

// LinkMatcher resolves a posting's skills to portfolio links.
type LinkMatcher interface {
	QueryLinks(ctx context.Context, skills []string, topK int) ([]string, error)
}

// Composer writes the outreach email for one posting.
type Composer interface {
	Compose(ctx context.Context, job domain.JobPosting, links []string) (string, error)
}
