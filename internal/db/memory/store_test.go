package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coldreach-ai/coldreach/internal/db"
)

func TestGetSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v" {
		t.Errorf("got %q, want %q", got, "v")
	}
}

func TestSetWithTTL_Expires(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	clock := time.Now()
	s.now = func() time.Time { return clock }

	if err := s.SetWithTTL(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	clock = clock.Add(2 * time.Hour)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after expiry, got %v", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("abc")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got[0] = 'x'

	again, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(again) != "abc" {
		t.Errorf("stored value mutated: %q", again)
	}
}
