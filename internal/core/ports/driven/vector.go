package driven

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// IndexEntry pairs a chunk with its embedding.
type IndexEntry struct {
	Chunk  domain.Chunk
	Vector []float32
}

// VectorIndexBuilder constructs a fresh index for one analysis.
// Indexes are never shared between analyses.
type VectorIndexBuilder interface {
	// Name identifies the backend for logging.
	Name() string

	// Build constructs an index holding exactly one vector per entry.
	// It fails with an error matching domain.ErrDimensionMismatch when
	// vectors differ in length.
	Build(ctx context.Context, entries []IndexEntry) (VectorIndex, error)
}

// VectorIndex provides cosine similarity search over a fixed set of chunks.
// An index is immutable after Build.
type VectorIndex interface {
	// Query returns at most k chunks ordered by descending similarity.
	// Ties are broken by lower chunk index. Fewer than k entries is not an error.
	Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error)

	// Len returns the number of entries.
	Len() int

	// Dimensions returns the vector size, or 0 for an empty index.
	Dimensions() int

	// Close releases resources.
	Close() error
}
