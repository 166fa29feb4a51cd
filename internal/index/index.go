// Package index provides the in-memory nearest-neighbor index over the
// portfolio catalog. The catalog is loaded once and never mutated, and holds
// at most a few hundred entries, so an exact brute-force cosine scan is both
// simpler and faster than an external vector backend.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/coldreach-ai/coldreach/internal/domain"
)

// Match is one search hit: the insertion position of the matched vector and
// its cosine similarity to the query.
type Match struct {
	Pos   int
	Score float64
}

// Index is a fixed-dimension cosine similarity index. Vectors are
// L2-normalized at insertion so search is a plain dot product. Safe for
// concurrent reads once built; Add is not safe to interleave with Search.
type Index struct {
	dim     int
	vectors [][]float32
}

// New creates an empty index. The dimension is fixed by the first Add.
func New() *Index {
	return &Index{}
}

// Add appends a vector. The first vector fixes the index dimension; later
// vectors must match it.
func (idx *Index) Add(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty vector: %w", domain.ErrVectorDimMismatch)
	}
	if idx.dim == 0 {
		idx.dim = len(vec)
	} else if len(vec) != idx.dim {
		return fmt.Errorf("got %d, index has %d: %w", len(vec), idx.dim, domain.ErrVectorDimMismatch)
	}
	idx.vectors = append(idx.vectors, normalize(vec))
	return nil
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return len(idx.vectors)
}

// Search returns up to topK matches by descending cosine similarity.
// Ties are broken by insertion order, so results are deterministic for an
// unchanged index.
func (idx *Index) Search(query []float32, topK int) ([]Match, error) {
	if len(query) != idx.dim {
		return nil, fmt.Errorf("query dim %d, index dim %d: %w", len(query), idx.dim, domain.ErrVectorDimMismatch)
	}
	if topK <= 0 || len(idx.vectors) == 0 {
		return nil, nil
	}

	q := normalize(query)
	matches := make([]Match, len(idx.vectors))
	for i, v := range idx.vectors {
		matches[i] = Match{Pos: i, Score: dot(q, v)}
	}

	// SliceStable keeps insertion order among equal scores.
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, f := range vec {
		sum += float64(f) * float64(f)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return append([]float32(nil), vec...)
	}
	out := make([]float32, len(vec))
	for i, f := range vec {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
