// Package catalog matches a posting's required skills against the portfolio
// through the similarity index.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/domain"
	"github.com/coldreach-ai/coldreach/internal/index"
)

// DefaultTopK is how many sample links a skill query returns unless the
// caller asks otherwise.
const DefaultTopK = 2

// Service owns the catalog snapshot and its similarity index. Load once at
// startup; QueryLinks is safe for concurrent use afterwards.
type Service struct {
	loader Loader
	embed  Embedder
	logger *zap.Logger

	entries []domain.PortfolioEntry
	idx     *index.Index
}

// New creates a catalog service.
func New(loader Loader, embed Embedder, logger *zap.Logger) *Service {
	return &Service{loader: loader, embed: embed, logger: logger}
}

// Load reads the portfolio source and builds the similarity index.
// Idempotent: a second call on a loaded catalog is a no-op. Any failure
// leaves the catalog unloaded and is fatal for the process.
func (s *Service) Load(ctx context.Context) error {
	if s.idx != nil {
		return nil
	}

	entries, err := s.loader.Load()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.TechstackText()
	}

	var batch domain.BatchEmbeddingResult
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		batch, err = be.BatchEmbed(ctx, texts)
	} else {
		batch, err = domain.BatchFallback(ctx, s.embed, texts)
	}
	if err != nil {
		return fmt.Errorf("%w: embed catalog: %w", domain.ErrCatalogUnavailable, err)
	}

	idx := index.New()
	for i, vec := range batch.Embeddings {
		if err := idx.Add(vec); err != nil {
			return fmt.Errorf("%w: index entry %d: %w", domain.ErrCatalogUnavailable, i, err)
		}
	}

	// Every entry must have exactly one vector.
	if idx.Len() != len(entries) {
		return fmt.Errorf("%w: index size %d, catalog size %d",
			domain.ErrCatalogUnavailable, idx.Len(), len(entries))
	}

	s.entries = entries
	s.idx = idx
	s.logger.Info("Portfolio catalog loaded",
		zap.Int("entries", len(entries)),
		zap.Int("embedding_tokens", batch.TotalTokens),
	)
	return nil
}

// Size returns the number of loaded catalog entries.
func (s *Service) Size() int {
	return len(s.entries)
}

// QueryLinks returns up to topK portfolio links matching the given skills,
// in descending-similarity order with duplicates removed. Empty skills
// yield an empty result: no skills means nothing to match, not "match
// everything". topK <= 0 falls back to DefaultTopK.
func (s *Service) QueryLinks(ctx context.Context, skills []string, topK int) ([]string, error) {
	if s.idx == nil || s.idx.Len() == 0 {
		return nil, domain.ErrCatalogUnavailable
	}

	query := queryText(skills)
	if query == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	result, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query %q: %w", query, err)
	}

	// Scan the whole index so deduplication never starves the result:
	// two entries may share a link.
	matches, err := s.idx.Search(result.Embedding, s.idx.Len())
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	links := make([]string, 0, topK)
	seen := make(map[string]struct{}, topK)
	for _, m := range matches {
		link := s.entries[m.Pos].Link
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
		if len(links) == topK {
			break
		}
	}

	return links, nil
}

// queryText joins the skill sequence into the single representation that
// gets embedded. Blank skills are dropped.
func queryText(skills []string) string {
	cleaned := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return strings.Join(cleaned, ", ")
}
