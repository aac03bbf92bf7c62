// Package vectorindex holds helpers shared by the vector index backends.
package vectorindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// CheckEntries returns the common vector length of entries. It fails with
// domain.ErrDimensionMismatch when lengths differ and domain.ErrInvalidInput
// for zero-length vectors.
func CheckEntries(entries []driven.IndexEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	dims := len(entries[0].Vector)
	if dims == 0 {
		return 0, fmt.Errorf("%w: %w: entry 0 has an empty vector", domain.ErrIndex, domain.ErrInvalidInput)
	}
	for i, e := range entries[1:] {
		if len(e.Vector) != dims {
			return 0, fmt.Errorf("%w: %w: entry %d has %d dimensions, want %d",
				domain.ErrIndex, domain.ErrDimensionMismatch, i+1, len(e.Vector), dims)
		}
	}
	return dims, nil
}

// CheckQuery validates a query vector against an index of dims dimensions.
func CheckQuery(vector []float32, dims, k int) error {
	if k < 1 {
		return fmt.Errorf("%w: %w: k must be at least 1, got %d", domain.ErrIndex, domain.ErrInvalidInput, k)
	}
	if dims > 0 && len(vector) != dims {
		return fmt.Errorf("%w: %w: query has %d dimensions, want %d",
			domain.ErrIndex, domain.ErrDimensionMismatch, len(vector), dims)
	}
	return nil
}

// Cosine returns the cosine similarity of a and b. A zero vector on either
// side scores 0.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank orders results by descending score, then ascending chunk index,
// and keeps at most k.
func Rank(results []domain.ScoredChunk, k int) []domain.ScoredChunk {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}
