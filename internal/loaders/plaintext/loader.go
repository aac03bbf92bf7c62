// Package plaintext provides a document loader for text and Markdown résumés.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

var documentNamespace = uuid.MustParse("9d2e6f4a-1c3b-4e7d-8a5f-0b6c7d8e9f21")

// Loader handles plain text documents. Form feeds separate pages.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// SupportedMIMETypes returns the MIME types this loader handles.
func (l *Loader) SupportedMIMETypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// SupportedExtensions returns the file extensions this loader handles.
func (l *Loader) SupportedExtensions() []string {
	return []string{".txt", ".text", ".md", ".markdown"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 5 // Fallback loader
}

// Load splits the text into pages on form feeds.
func (l *Loader) Load(_ context.Context, data []byte, name string) (*domain.Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w: empty document", domain.ErrLoad, domain.ErrInvalidInput)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", domain.ErrLoad)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(content, "\f")
	pages := make([]domain.Page, len(parts))
	for i, p := range parts {
		pages[i] = domain.Page{Number: i + 1, Text: p}
	}

	doc := &domain.Document{
		ID:       uuid.NewSHA1(documentNamespace, data).String(),
		Name:     filepath.Base(name),
		MIMEType: mimeType(name),
		Size:     len(data),
		Pages:    pages,
	}
	if !doc.HasText() {
		return nil, fmt.Errorf("%w: %w", domain.ErrLoad, domain.ErrNoText)
	}
	return doc, nil
}

func mimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	default:
		return "text/plain"
	}
}
