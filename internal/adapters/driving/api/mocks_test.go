package api

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
)

var _ driving.AnalyzerService = (*mockAnalyzer)(nil)

type mockAnalyzer struct {
	analysis  *domain.Analysis
	retrieval *domain.Retrieval
	err       error
	lastReq   domain.AnalyzeRequest
	calls     int
}

func (m *mockAnalyzer) Analyze(_ context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.analysis, nil
}

func (m *mockAnalyzer) Retrieve(_ context.Context, req domain.AnalyzeRequest) (*domain.Retrieval, error) {
	m.calls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.retrieval, nil
}

func (m *mockAnalyzer) Presets() []domain.Preset {
	return domain.AllPresets()
}
