// Package pagecache puts a get-or-fetch cache in front of the page fetcher
// so repeated requests for the same job-page URL do not re-scrape it. The
// pipeline never sees this layer; it behaves identically with or without it.
package pagecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/db"
)

const cacheKeyPrefix = "coldreach:page_cache:"

// Fetcher retrieves the cleaned text of a page by URL.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// store is the consumer interface for the page cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher caches fetched page text with a TTL.
type CachedFetcher struct {
	inner      Fetcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator around fetcher.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Fetcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedFetcher {
	return &CachedFetcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// FetchText returns the cached page text or fetches it. Fetch errors are
// never cached; cache write failures are logged and ignored.
func (c *CachedFetcher) FetchText(ctx context.Context, url string) (string, error) {
	key := c.cacheKey(url)

	if data, err := c.store.Get(ctx, key); err == nil && len(data) > 0 {
		c.incCache("hit")
		return string(data), nil
	} else if err != nil && !errors.Is(err, db.ErrKeyNotFound) {
		c.logger.Warn("Failed to get cached page", zap.String("url", url), zap.Error(err))
	}

	c.incCache("miss")

	text, err := c.inner.FetchText(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}

	if err := c.store.SetWithTTL(ctx, key, []byte(text), c.ttl); err != nil {
		c.logger.Warn("Failed to cache page", zap.String("url", url), zap.Error(err))
	}

	return text, nil
}

func (c *CachedFetcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedFetcher) cacheKey(url string) string {
	h := sha256.Sum256([]byte(url))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
