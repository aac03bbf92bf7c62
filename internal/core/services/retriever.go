package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Retriever embeds a question and looks it up in a per-request index.
type Retriever struct {
	embedder driven.EmbeddingService
}

// NewRetriever creates a retriever backed by the given embedder.
func NewRetriever(embedder driven.EmbeddingService) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve returns at most k chunks of index ordered by similarity to query.
// Embedding failures match domain.ErrEmbedding and lookup failures match
// domain.ErrIndex.
func (r *Retriever) Retrieve(
	ctx context.Context, index driven.VectorIndex, query string, k int,
) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, domain.ErrEmptyText)
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration,
			&domain.InvalidValueError{Field: "k", Value: fmt.Sprint(k), Reason: "must be at least 1"})
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbedding, err)
	}
	logger.Debug("Query embedded: %d dimensions", len(vec))

	results, err := index.Query(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndex, err)
	}

	for i, res := range results {
		logger.Debug("  #%d chunk=%d page=%d score=%.4f", i+1, res.Chunk.Index, res.Chunk.Page, res.Score)
	}
	return results, nil
}
