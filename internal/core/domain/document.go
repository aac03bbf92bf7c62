package domain

import (
	"strings"
	"unicode/utf8"
)

// Page is the extracted text of one page, in reading order.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted plain text.
	Text string
}

// Document represents an uploaded résumé after text extraction.
// It lives only for the duration of one analysis.
type Document struct {
	// ID is derived from the document bytes.
	ID string

	// Name is the original file name, if known.
	Name string

	// MIMEType is the detected content type.
	MIMEType string

	// Size is the number of raw bytes.
	Size int

	// Pages holds the page texts in order.
	Pages []Page
}

// PageCount returns the number of pages extracted.
func (d *Document) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.Pages)
}

// Text returns all page texts joined by blank lines.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, len(d.Pages))
	for i := range d.Pages {
		parts[i] = d.Pages[i].Text
	}
	return strings.Join(parts, "\n\n")
}

// HasText reports whether any page contains non-whitespace text.
func (d *Document) HasText() bool {
	if d == nil {
		return false
	}
	for i := range d.Pages {
		if strings.TrimSpace(d.Pages[i].Text) != "" {
			return true
		}
	}
	return false
}

// Chunk is a bounded span of page text.
// Start and End are rune offsets into the page text, End exclusive.
type Chunk struct {
	// ID is deterministic for a given document and index.
	ID string `json:"id"`

	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Index is the sequence position across the whole document.
	Index int `json:"index"`

	// Page is the 1-based page the chunk was cut from.
	Page int `json:"page"`

	// Start is the rune offset of the first character.
	Start int `json:"start"`

	// End is the rune offset one past the last character.
	End int `json:"end"`

	// Content is the chunk text.
	Content string `json:"content"`
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	return utf8.RuneCountInString(c.Content)
}

// ScoredChunk is a chunk returned from the index with its similarity.
type ScoredChunk struct {
	Chunk Chunk `json:"chunk"`

	// Score is the cosine similarity to the query, in [-1, 1].
	Score float64 `json:"score"`
}
