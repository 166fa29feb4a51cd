// Package pipeline sequences the stages that turn raw page text into
// outreach emails: normalize, extract, then match and compose per posting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/domain"
	"github.com/coldreach-ai/coldreach/internal/logger"
	"github.com/coldreach-ai/coldreach/internal/metrics"
	"github.com/coldreach-ai/coldreach/internal/textutil"
)

// Service orchestrates one end-to-end run. All dependencies are injected at
// construction; the service holds no mutable state of its own, so one
// instance serves concurrent runs.
type Service struct {
	extractor Extractor
	matcher   LinkMatcher
	composer  Composer
	topK      int
	workers   int
}

// New creates a pipeline. topK <= 0 lets the matcher use its default;
// workers <= 1 composes postings sequentially.
func New(extractor Extractor, matcher LinkMatcher, composer Composer, topK, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		extractor: extractor,
		matcher:   matcher,
		composer:  composer,
		topK:      topK,
		workers:   workers,
	}
}

// Run executes the pipeline on raw page text. The returned outcomes are in
// posting order. Extraction failures and an unavailable catalog abort the
// whole run; a failed composition only marks its own posting.
func (s *Service) Run(ctx context.Context, raw string) ([]domain.Outcome, error) {
	log := logger.FromContext(ctx)

	normalized := textutil.Normalize(raw)

	postings, err := s.extractor.Extract(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("extract postings: %w", err)
	}
	if len(postings) == 0 {
		log.Info("No postings found on page")
		return []domain.Outcome{}, nil
	}
	log.Info("Postings extracted", zap.Int("count", len(postings)))

	outcomes := make([]domain.Outcome, len(postings))
	if s.workers == 1 || len(postings) == 1 {
		for i, p := range postings {
			outcomes[i] = s.processPosting(ctx, p)
		}
	} else {
		s.processParallel(ctx, postings, outcomes)
	}

	// The catalog is a precondition for every posting, not a per-posting
	// condition: if any posting hit it, the whole run failed.
	for _, o := range outcomes {
		if errors.Is(o.Err, domain.ErrCatalogUnavailable) {
			return nil, fmt.Errorf("match links for role %q: %w", o.Job.Role, o.Err)
		}
	}

	for _, o := range outcomes {
		if o.Err == nil {
			metrics.EmailsGeneratedTotal.Inc()
		}
	}

	return outcomes, nil
}

// processPosting runs the Matched → Composed stages for one posting.
// Cancellation surfaces as that posting's error rather than being dropped.
func (s *Service) processPosting(ctx context.Context, job domain.JobPosting) domain.Outcome {
	outcome := domain.Outcome{Job: job}

	if err := ctx.Err(); err != nil {
		outcome.Err = fmt.Errorf("posting aborted: %w", err)
		return outcome
	}

	links, err := s.matcher.QueryLinks(ctx, job.Skills, s.topK)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Links = links

	email, err := s.composer.Compose(ctx, job, links)
	if err != nil {
		logger.FromContext(ctx).Warn("Composition failed",
			zap.String("role", job.Role),
			zap.Error(err),
		)
		outcome.Err = err
		return outcome
	}
	outcome.Email = email

	return outcome
}

// processParallel fans postings out over a bounded worker pool. Postings
// share no mutable state, so the only coordination is the slot index.
func (s *Service) processParallel(ctx context.Context, postings []domain.JobPosting, outcomes []domain.Outcome) {
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, p := range postings {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p domain.JobPosting) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.processPosting(ctx, p)
		}(i, p)
	}

	wg.Wait()
}
