package index

import (
	"errors"
	"testing"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

func TestAdd_DimMismatch(t *testing.T) {
	idx := New()
	if err := idx.Add([]float32{1, 0, 0}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := idx.Add([]float32{1, 0})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestAdd_EmptyVector(t *testing.T) {
	if err := New().Add(nil); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_RanksByCosine(t *testing.T) {
	idx := New()
	for _, v := range [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	} {
		if err := idx.Add(v); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	matches, err := idx.Search([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Pos != 0 {
		t.Errorf("best match pos = %d, want 0", matches[0].Pos)
	}
	if matches[1].Pos != 2 {
		t.Errorf("second match pos = %d, want 2", matches[1].Pos)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("scores not descending: %v", matches)
	}
}

func TestSearch_TiesBrokenByInsertionOrder(t *testing.T) {
	idx := New()
	// Identical vectors at positions 0..2: all score equally.
	for i := 0; i < 3; i++ {
		if err := idx.Add([]float32{0, 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	matches, err := idx.Search([]float32{0, 2}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for i, m := range matches {
		if m.Pos != i {
			t.Errorf("match %d pos = %d, want %d (insertion order)", i, m.Pos, i)
		}
	}
}

func TestSearch_Deterministic(t *testing.T) {
	idx := New()
	for _, v := range [][]float32{{1, 1}, {1, 0}, {0.5, 0.5}} {
		if err := idx.Add(v); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	first, err := idx.Search([]float32{1, 1}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := idx.Search([]float32{1, 1}, 3)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		for j := range first {
			if again[j].Pos != first[j].Pos {
				t.Fatalf("run %d: order changed: %v vs %v", i, again, first)
			}
		}
	}
}

func TestSearch_QueryDimMismatch(t *testing.T) {
	idx := New()
	if err := idx.Add([]float32{1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := idx.Search([]float32{1, 0, 0}, 1); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_TopKLargerThanIndex(t *testing.T) {
	idx := New()
	if err := idx.Add([]float32{1, 0}); err != nil {
		t.Fatalf("add: %v", err)
	}
	matches, err := idx.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}
