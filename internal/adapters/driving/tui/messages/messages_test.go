package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewAnalyze, "analyze"},
		{ViewAnswer, "answer"},
		{ViewSettings, "settings"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestAnalysisCompleted_CarriesError(t *testing.T) {
	err := domain.NewPipelineError(domain.ErrLoad, domain.StageLoad, 0, domain.ErrNoText)
	msg := AnalysisCompleted{Err: err}

	assert.Nil(t, msg.Analysis)
	assert.True(t, errors.Is(msg.Err, domain.ErrNoText))
}

func TestAnalysisStarted_CarriesRequest(t *testing.T) {
	msg := AnalysisStarted{Request: domain.AnalyzeRequest{Filename: "cv.pdf", Mode: domain.ModeATS}}

	assert.Equal(t, "cv.pdf", msg.Request.Filename)
	assert.Equal(t, domain.ModeATS, msg.Request.Mode)
}
