package driven

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// Chunker splits a document into ordered, overlapping chunks.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk returns the chunks of doc in sequence order.
	// A document without text yields no chunks and no error.
	Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
