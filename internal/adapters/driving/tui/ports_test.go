package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// MockAnalyzerService implements driving.AnalyzerService for testing.
type MockAnalyzerService struct {
	AnalyzeFunc func(ctx context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error)
}

func (m *MockAnalyzerService) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, req)
	}
	return &domain.Analysis{}, nil
}

func (m *MockAnalyzerService) Retrieve(_ context.Context, _ domain.AnalyzeRequest) (*domain.Retrieval, error) {
	return &domain.Retrieval{}, nil
}

func (m *MockAnalyzerService) Presets() []domain.Preset {
	return domain.AllPresets()
}

func TestNewPorts(t *testing.T) {
	analyzer := &MockAnalyzerService{}

	ports := NewPorts(analyzer, nil)

	require.NotNil(t, ports)
	assert.Equal(t, analyzer, ports.Analyzer)
	assert.Nil(t, ports.Settings)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{name: "valid", ports: &Ports{Analyzer: &MockAnalyzerService{}}},
		{name: "missing analyzer", ports: &Ports{}, wantErr: ErrMissingAnalyzer},
		{name: "nil ports", ports: nil, wantErr: ErrInvalidPorts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
