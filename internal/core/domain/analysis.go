package domain

import "time"

// AnalyzeRequest is the input to one analysis.
type AnalyzeRequest struct {
	// Data is the raw document bytes.
	Data []byte

	// Filename is used to pick a loader and for display.
	Filename string

	// Mode selects a preset question or custom.
	Mode Mode

	// Question is the custom question. Ignored for preset modes.
	Question string

	// TopK overrides the configured number of chunks to retrieve. Zero keeps the default.
	TopK int
}

// Analysis is the answer to one request plus the metadata around it.
type Analysis struct {
	// ID uniquely identifies this analysis.
	ID string `json:"id"`

	// Answer is the model's free-text response.
	Answer string `json:"answer"`

	// Mode is the mode that was used.
	Mode Mode `json:"mode"`

	// ModeLabel is the display label of Mode.
	ModeLabel string `json:"mode_label"`

	// Question is the text actually asked.
	Question string `json:"question"`

	// PagesAnalyzed is the number of pages loaded from the document.
	PagesAnalyzed int `json:"pages_analyzed"`

	// ChunkCount is the number of chunks indexed.
	ChunkCount int `json:"chunk_count"`

	// Context holds the retrieved chunks in rank order.
	Context []ScoredChunk `json:"context"`

	// Model is the language model that produced Answer.
	Model string `json:"model"`

	// PromptTokens is the estimated prompt size.
	PromptTokens int `json:"prompt_tokens"`

	// Duration is the wall time of the whole pipeline.
	Duration time.Duration `json:"duration"`
}

// Retrieval is the result of running the pipeline without generation.
type Retrieval struct {
	Question      string        `json:"question"`
	Mode          Mode          `json:"mode"`
	PagesAnalyzed int           `json:"pages_analyzed"`
	ChunkCount    int           `json:"chunk_count"`
	Results       []ScoredChunk `json:"results"`
}
