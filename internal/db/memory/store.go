// Package memory implements db.Store with an in-process map. Used when no
// Redis is configured and in tests; cache contents do not survive restarts.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/coldreach-ai/coldreach/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Store is an in-process key-value store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{entries: map[string]entry{}, now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady always succeeds.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a value by key. Expired entries are treated as missing.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.entries[key] = entry{value: append([]byte(nil), value...)}
	s.mu.Unlock()
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.entries[key] = entry{
		value:     append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}
