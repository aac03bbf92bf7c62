// Package chromem provides a vector index backed by an in-memory
// chromem-go collection. A fresh database is created per Build.
package chromem

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/resume-ats/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driven.VectorIndexBuilder = (*Builder)(nil)
	_ driven.VectorIndex        = (*Index)(nil)
)

const collectionName = "resume-chunks"

// Builder creates chromem-backed indexes.
type Builder struct {
	concurrency int
}

// NewBuilder creates a new chromem index builder.
func NewBuilder() *Builder {
	return &Builder{concurrency: runtime.NumCPU()}
}

// Name returns the backend name.
func (b *Builder) Name() string {
	return "chromem"
}

// Build adds every entry to a new collection. Vectors are always supplied,
// so the collection's embedding function is never called.
func (b *Builder) Build(ctx context.Context, entries []driven.IndexEntry) (driven.VectorIndex, error) {
	dims, err := vectorindex.CheckEntries(entries)
	if err != nil {
		return nil, err
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create collection: %w", domain.ErrIndex, err)
	}

	idx := &Index{
		db:         db,
		collection: collection,
		dims:       dims,
		chunks:     make(map[string]domain.Chunk, len(entries)),
	}
	if len(entries) == 0 {
		return idx, nil
	}

	docs := make([]chromem.Document, len(entries))
	for i, e := range entries {
		id := strconv.Itoa(i)
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		docs[i] = chromem.Document{
			ID:        id,
			Content:   e.Chunk.Content,
			Embedding: vec,
			Metadata: map[string]string{
				"page":  strconv.Itoa(e.Chunk.Page),
				"index": strconv.Itoa(e.Chunk.Index),
			},
		}
		idx.chunks[id] = e.Chunk
	}

	if err := collection.AddDocuments(ctx, docs, b.concurrency); err != nil {
		return nil, fmt.Errorf("%w: add documents: %w", domain.ErrIndex, err)
	}
	logger.Debug("chromem: indexed %d chunks (%d dimensions)", len(docs), dims)
	return idx, nil
}

// Index wraps a single chromem collection.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	dims       int
	chunks     map[string]domain.Chunk
}

// Query returns the k most similar chunks. All documents are requested so
// that ties can be broken by chunk index before truncating.
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if err := vectorindex.CheckQuery(vector, i.dims, k); err != nil {
		return nil, err
	}
	if len(i.chunks) == 0 {
		return []domain.ScoredChunk{}, nil
	}

	if isZero(vector) {
		results := make([]domain.ScoredChunk, 0, len(i.chunks))
		for _, c := range i.chunks {
			results = append(results, domain.ScoredChunk{Chunk: c})
		}
		return vectorindex.Rank(results, k), nil
	}

	found, err := i.collection.QueryEmbedding(ctx, vector, i.collection.Count(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrIndex, err)
	}

	results := make([]domain.ScoredChunk, 0, len(found))
	for _, r := range found {
		chunk, ok := i.chunks[r.ID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown document id %q", domain.ErrIndex, r.ID)
		}
		score := float64(r.Similarity)
		if math.IsNaN(score) {
			score = 0
		}
		results = append(results, domain.ScoredChunk{Chunk: chunk, Score: score})
	}
	return vectorindex.Rank(results, k), nil
}

// Len returns the number of entries.
func (i *Index) Len() int {
	return len(i.chunks)
}

// Dimensions returns the vector size.
func (i *Index) Dimensions() int {
	return i.dims
}

// Close drops the collection.
func (i *Index) Close() error {
	if i.db == nil {
		return nil
	}
	err := i.db.DeleteCollection(collectionName)
	i.db = nil
	i.collection = nil
	return err
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
