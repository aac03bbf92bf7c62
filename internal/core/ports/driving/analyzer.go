package driving

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// AnalyzerService runs the résumé pipeline for external actors.
type AnalyzerService interface {
	// Analyze loads, indexes and retrieves from the document, then asks the
	// language model. Errors match one of the domain error kinds.
	Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error)

	// Retrieve runs the same pipeline but stops before generation.
	// It needs no LLM credential.
	Retrieve(ctx context.Context, req domain.AnalyzeRequest) (*domain.Retrieval, error)

	// Presets returns the selectable questions.
	Presets() []domain.Preset
}
