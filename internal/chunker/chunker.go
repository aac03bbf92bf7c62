// Package chunker splits page text into overlapping, breakpoint-aware chunks.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// Ensure Chunker implements the interface.
var _ driven.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// chunkNamespace seeds deterministic chunk IDs.
var chunkNamespace = uuid.MustParse("6f1c2a52-7d0e-4b8e-9a55-2f4f3c8e1d10")

// breakpoints are tried in order; earlier entries are stronger boundaries.
var breakpoints = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune("? "),
	[]rune("! "),
	[]rune("; "),
	[]rune(" "),
}

// Chunker slides a window of chunkSize characters over each page,
// stepping back overlap characters from every cut.
type Chunker struct {
	chunkSize int
	overlap   int
	tolerance int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// WithTolerance sets how far back from the window end a breakpoint is searched.
func WithTolerance(tolerance int) Option {
	return func(c *Chunker) {
		if tolerance >= 0 {
			c.tolerance = tolerance
		}
	}
}

// New creates a chunker with the given options.
// The breakpoint tolerance defaults to a fifth of the chunk size.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		tolerance: -1,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}
	if c.tolerance < 0 {
		c.tolerance = c.chunkSize / 5
	}

	return c
}

// Name returns the chunker name.
func (c *Chunker) Name() string {
	return "chunker"
}

// ChunkSize returns the configured maximum chunk length.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Chunk splits every page of doc. Chunks never cross page boundaries and
// together cover every character of every non-blank page.
func (c *Chunker) Chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("chunk: %w: nil document", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		for _, span := range c.Spans(page.Text) {
			idx := len(chunks)
			chunks = append(chunks, domain.Chunk{
				ID:         chunkID(doc.ID, idx),
				DocumentID: doc.ID,
				Index:      idx,
				Page:       page.Number,
				Start:      span.Start,
				End:        span.End,
				Content:    span.Text,
			})
		}
	}

	return chunks, nil
}

// Span is a half-open rune range of a text.
type Span struct {
	Start int
	End   int
	Text  string
}

// Spans returns the chunk ranges for a single text. Empty text yields none.
func (c *Chunker) Spans(text string) []Span {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	spans := make([]Span, 0, n/(c.chunkSize-c.overlap)+1)
	start := 0
	for {
		end := start + c.chunkSize
		if end >= n {
			spans = append(spans, Span{Start: start, End: n, Text: string(runes[start:n])})
			return spans
		}
		end = c.cut(runes, start, end)
		spans = append(spans, Span{Start: start, End: end, Text: string(runes[start:end])})
		start = end - c.overlap
	}
}

// cut picks where a window [start, end) ends. It returns a position just
// after the strongest breakpoint inside the tolerance window, or end when
// none exists. The result is always greater than start+overlap so the
// next window makes progress.
func (c *Chunker) cut(runes []rune, start, end int) int {
	lo := end - c.tolerance
	if floor := start + c.overlap + 1; lo < floor {
		lo = floor
	}
	if lo > end {
		return end
	}
	for _, sep := range breakpoints {
		if pos := lastBreak(runes, start, lo, end, sep); pos >= 0 {
			return pos
		}
	}
	return end
}

// lastBreak returns the offset right after the last occurrence of sep
// that ends within [lo, end] and starts at or after start, or -1.
func lastBreak(runes []rune, start, lo, end int, sep []rune) int {
	for i := end - len(sep); i >= start && i+len(sep) >= lo; i-- {
		if matchAt(runes, i, sep) {
			return i + len(sep)
		}
	}
	return -1
}

func matchAt(runes []rune, i int, sep []rune) bool {
	for j, r := range sep {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}

func chunkID(docID string, idx int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s/%d", docID, idx))).String()
}
