package driven

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// DocumentLoader extracts ordered page text from raw document bytes.
// Each loader handles specific MIME types (e.g., PDF, plain text).
type DocumentLoader interface {
	// SupportedMIMETypes returns the MIME types this loader handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns file extensions, with leading dot, used
	// when content sniffing is inconclusive.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Load extracts the document. It must fail with an error matching
	// domain.ErrLoad when the bytes are invalid or hold no text.
	Load(ctx context.Context, data []byte, name string) (*domain.Document, error)
}

// LoaderRegistry selects the appropriate loader for a document.
type LoaderRegistry interface {
	// Load extracts the document using the best matching loader.
	Load(ctx context.Context, data []byte, name string) (*domain.Document, error)

	// Register adds a loader to the registry.
	Register(loader DocumentLoader)

	// SupportedMIMETypes returns all MIME types that can be loaded.
	SupportedMIMETypes() []string
}
