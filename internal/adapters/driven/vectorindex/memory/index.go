// Package memory provides a brute-force in-memory vector index.
package memory

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driven.VectorIndexBuilder = (*Builder)(nil)
	_ driven.VectorIndex        = (*Index)(nil)
)

// Builder creates in-memory indexes.
type Builder struct{}

// NewBuilder creates a new in-memory index builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Name returns the backend name.
func (b *Builder) Name() string {
	return "memory"
}

// Build copies the entries into a new index.
func (b *Builder) Build(ctx context.Context, entries []driven.IndexEntry) (driven.VectorIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dims, err := vectorindex.CheckEntries(entries)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		dims:    dims,
		entries: make([]driven.IndexEntry, len(entries)),
	}
	for i, e := range entries {
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		idx.entries[i] = driven.IndexEntry{Chunk: e.Chunk, Vector: vec}
	}
	return idx, nil
}

// Index scores every entry against the query.
type Index struct {
	dims    int
	entries []driven.IndexEntry
}

// Query returns the k most similar chunks.
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := vectorindex.CheckQuery(vector, i.dims, k); err != nil {
		return nil, err
	}

	results := make([]domain.ScoredChunk, len(i.entries))
	for n, e := range i.entries {
		results[n] = domain.ScoredChunk{
			Chunk: e.Chunk,
			Score: vectorindex.Cosine(vector, e.Vector),
		}
	}
	return vectorindex.Rank(results, k), nil
}

// Len returns the number of entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// Dimensions returns the vector size.
func (i *Index) Dimensions() int {
	return i.dims
}

// Close releases the entries.
func (i *Index) Close() error {
	i.entries = nil
	return nil
}
