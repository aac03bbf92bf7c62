package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure surfaced by the analyzer matches exactly one
// of these via errors.Is.
var (
	// ErrLoad indicates the document could not be read or holds no text.
	ErrLoad = errors.New("load error")

	// ErrEmbedding indicates a text could not be embedded.
	ErrEmbedding = errors.New("embedding error")

	// ErrIndex indicates the vector index could not be built or queried.
	ErrIndex = errors.New("index error")

	// ErrGeneration indicates the language model call failed.
	// This covers missing credentials, network failures and rejected requests.
	ErrGeneration = errors.New("generation error")

	// ErrConfiguration indicates a missing or invalid input supplied by the caller.
	ErrConfiguration = errors.New("configuration error")
)

// Causes wrapped inside a kind.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no loader accepts the document type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoText indicates the document parsed but contained no extractable text.
	ErrNoText = errors.New("no extractable text")

	// ErrEmptyText indicates an empty string was passed to the embedder.
	ErrEmptyText = errors.New("empty text")

	// ErrDimensionMismatch indicates vectors of different lengths met in one index.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMissingCredential indicates the LLM provider needs an API key and none was resolved.
	ErrMissingCredential = errors.New("missing credential")

	// ErrEmptyQuestion indicates a custom mode was selected without a question.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrLLMUnavailable indicates no LLM service is configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrTimeout indicates the generation deadline passed.
	ErrTimeout = errors.New("timed out")
)

// Stage names the pipeline step an error came from.
type Stage string

// Pipeline stages, in execution order.
const (
	StageConfigure Stage = "configure"
	StageLoad      Stage = "load"
	StageChunk     Stage = "chunk"
	StageEmbed     Stage = "embed"
	StageIndex     Stage = "index"
	StageRetrieve  Stage = "retrieve"
	StagePrompt    Stage = "prompt"
	StageGenerate  Stage = "generate"
)

// PipelineError is returned by the analyzer when a stage fails.
// It matches both its Kind and the wrapped cause via errors.Is.
type PipelineError struct {
	// Kind is one of the error kind sentinels.
	Kind error

	// Stage is the step that failed.
	Stage Stage

	// Pages is the number of pages loaded before the failure.
	// Zero when loading itself did not complete.
	Pages int

	// Err is the underlying cause.
	Err error
}

// NewPipelineError wraps err as a failure of the given kind and stage.
func NewPipelineError(kind error, stage Stage, pages int, err error) *PipelineError {
	return &PipelineError{Kind: kind, Stage: stage, Pages: pages, Err: err}
}

// Error implements error.
func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Stage)
	if e.Err != nil {
		if errors.Is(e.Err, e.Kind) {
			// The cause already names its kind.
			msg = fmt.Sprintf("%s: %s", e.Stage, e.Err)
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Pages > 0 {
		msg += fmt.Sprintf(" (after loading %d page(s))", e.Pages)
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// kinds lists the error kind sentinels in a stable order.
var kinds = []error{ErrConfiguration, ErrLoad, ErrEmbedding, ErrIndex, ErrGeneration}

// KindOf returns the error kind sentinel err matches, or nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	var pe *PipelineError
	if errors.As(err, &pe) && pe.Kind != nil {
		return pe.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// KindName returns a short stable name for an error kind, suitable for APIs.
func KindName(kind error) string {
	switch kind {
	case ErrConfiguration:
		return "configuration"
	case ErrLoad:
		return "load"
	case ErrEmbedding:
		return "embedding"
	case ErrIndex:
		return "index"
	case ErrGeneration:
		return "generation"
	default:
		return "internal"
	}
}

// PagesOf returns the partial page count attached to err, if any.
func PagesOf(err error) int {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Pages
	}
	return 0
}
