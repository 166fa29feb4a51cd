package pagecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/coldreach-ai/coldreach/internal/db"
)

type mockFetcher struct {
	text  string
	err   error
	calls int
}

func (m *mockFetcher) FetchText(_ context.Context, _ string) (string, error) {
	m.calls++
	return m.text, m.err
}

type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func TestFetchText_Miss(t *testing.T) {
	inner := &mockFetcher{text: "cleaned page text"}
	ms := &mockKVStore{}

	var setTTL time.Duration
	ms.setFn = func(_ context.Context, _ string, _ []byte, ttl time.Duration) error {
		setTTL = ttl
		return nil
	}

	cf := New(inner, ms, time.Hour, nil, zap.NewNop())

	text, err := cf.FetchText(context.Background(), "https://jobs.example.com/r-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "cleaned page text" {
		t.Errorf("text = %q", text)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if setTTL != time.Hour {
		t.Errorf("cache TTL = %v, want 1h", setTTL)
	}
}

func TestFetchText_Hit(t *testing.T) {
	inner := &mockFetcher{text: "fresh"}
	ms := &mockKVStore{
		getFn: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("cached"), nil
		},
	}
	cf := New(inner, ms, time.Hour, nil, zap.NewNop())

	text, err := cf.FetchText(context.Background(), "https://jobs.example.com/r-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "cached" {
		t.Errorf("text = %q, want cached value", text)
	}
	if inner.calls != 0 {
		t.Errorf("inner should not be called on hit, got %d", inner.calls)
	}
}

func TestFetchText_FetchErrorNotCached(t *testing.T) {
	inner := &mockFetcher{err: errors.New("404")}
	ms := &mockKVStore{}

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	cf := New(inner, ms, time.Hour, nil, zap.NewNop())
	if _, err := cf.FetchText(context.Background(), "https://bad"); err == nil {
		t.Fatal("expected error")
	}
	if setCalled {
		t.Error("fetch errors must not be cached")
	}
}

func TestFetchText_CacheWriteFailureIgnored(t *testing.T) {
	inner := &mockFetcher{text: "page"}
	ms := &mockKVStore{
		setFn: func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
			return errors.New("redis down")
		},
	}
	cf := New(inner, ms, time.Hour, nil, zap.NewNop())

	text, err := cf.FetchText(context.Background(), "https://jobs.example.com")
	if err != nil {
		t.Fatalf("cache write failure must not surface: %v", err)
	}
	if text != "page" {
		t.Errorf("text = %q", text)
	}
}
