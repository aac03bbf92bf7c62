// Package indextest provides a shared conformance suite for vector index backends.
package indextest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// Entry builds an index entry for chunk index i with the given vector.
func Entry(i int, vec ...float32) driven.IndexEntry {
	return driven.IndexEntry{
		Chunk:  domain.Chunk{ID: string(rune('a' + i)), Index: i, Page: 1, Content: "chunk"},
		Vector: vec,
	}
}

// RunBuilderSuite exercises the behaviour every backend must share.
func RunBuilderSuite(t *testing.T, builder driven.VectorIndexBuilder) {
	t.Helper()
	ctx := context.Background()

	t.Run("orders by similarity", func(t *testing.T) {
		idx, err := builder.Build(ctx, []driven.IndexEntry{
			Entry(0, 0, 1),
			Entry(1, 1, 0),
			Entry(2, 1, 1),
		})
		require.NoError(t, err)
		defer idx.Close() //nolint:errcheck

		assert.Equal(t, 3, idx.Len())
		assert.Equal(t, 2, idx.Dimensions())

		got, err := idx.Query(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Chunk.Index)
		assert.Equal(t, 2, got[1].Chunk.Index)
		assert.InDelta(t, 1.0, got[0].Score, 1e-5)
		assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
	})

	t.Run("ties break by chunk index", func(t *testing.T) {
		idx, err := builder.Build(ctx, []driven.IndexEntry{
			Entry(0, 0, 1),
			Entry(1, 1, 0),
			Entry(2, 1, 0),
			Entry(3, 1, 0),
		})
		require.NoError(t, err)
		defer idx.Close() //nolint:errcheck

		got, err := idx.Query(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Chunk.Index)
		assert.Equal(t, 2, got[1].Chunk.Index)
	})

	t.Run("k larger than index", func(t *testing.T) {
		idx, err := builder.Build(ctx, []driven.IndexEntry{Entry(0, 1, 0), Entry(1, 0, 1)})
		require.NoError(t, err)
		defer idx.Close() //nolint:errcheck

		got, err := idx.Query(ctx, []float32{1, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("zero query vector scores zero", func(t *testing.T) {
		idx, err := builder.Build(ctx, []driven.IndexEntry{Entry(0, 1, 0), Entry(1, 0, 1)})
		require.NoError(t, err)
		defer idx.Close() //nolint:errcheck

		got, err := idx.Query(ctx, []float32{0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Zero(t, got[0].Score)
		assert.Equal(t, 0, got[0].Chunk.Index)
	})

	t.Run("empty index", func(t *testing.T) {
		idx, err := builder.Build(ctx, nil)
		require.NoError(t, err)
		defer idx.Close() //nolint:errcheck

		got, err := idx.Query(ctx, []float32{1, 0}, 3)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, idx.Len())
	})

	t.Run("dimension mismatch on build", func(t *testing.T) {
		_, err := builder.Build(ctx, []driven.IndexEntry{Entry(0, 1, 0), Entry(1, 1, 0, 0)})
		assert.ErrorIs(t, err, domain.ErrIndex)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("dimension mismatch on query", func(t *testing.T) {
		idx, err := builder.Build(ctx, []driven.IndexEntry{Entry(0, 1, 0)})
		require.NoError(t, err)
		defer idx.Close() //nolint:errcheck

		_, err = idx.Query(ctx, []float32{1, 0, 0}, 1)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("deterministic", func(t *testing.T) {
		entries := []driven.IndexEntry{Entry(0, 0.3, 0.7), Entry(1, 0.6, 0.4), Entry(2, 0.5, 0.5)}
		a, err := builder.Build(ctx, entries)
		require.NoError(t, err)
		b, err := builder.Build(ctx, entries)
		require.NoError(t, err)

		ra, err := a.Query(ctx, []float32{0.9, 0.1}, 3)
		require.NoError(t, err)
		rb, err := b.Query(ctx, []float32{0.9, 0.1}, 3)
		require.NoError(t, err)
		assert.Equal(t, ra, rb)
	})
}
