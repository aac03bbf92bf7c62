package mcp

import (
	"context"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// mockAnalyzer is a mock implementation of driving.AnalyzerService.
type mockAnalyzer struct {
	analysis  *domain.Analysis
	retrieval *domain.Retrieval
	err       error
	lastReq   domain.AnalyzeRequest
}

func (m *mockAnalyzer) Analyze(_ context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error) {
	m.lastReq = req
	return m.analysis, m.err
}

func (m *mockAnalyzer) Retrieve(_ context.Context, req domain.AnalyzeRequest) (*domain.Retrieval, error) {
	m.lastReq = req
	return m.retrieval, m.err
}

func (m *mockAnalyzer) Presets() []domain.Preset {
	return domain.AllPresets()
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error { return m.err }

func (m *mockSettingsService) SetPipeline(_ domain.PipelineSettings) error { return m.err }

func (m *mockSettingsService) SetTemperature(_ float64) error { return m.err }

func (m *mockSettingsService) Validate() error { return m.err }

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.err }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.err }
