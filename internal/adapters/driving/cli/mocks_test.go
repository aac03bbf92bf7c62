package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// mockAnalyzer implements driving.AnalyzerService for CLI tests.
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
	return m.analysis, m.err
}

func (m *mockAnalyzer) Retrieve(_ context.Context, req domain.AnalyzeRequest) (*domain.Retrieval, error) {
	m.calls++
	m.lastReq = req
	return m.retrieval, m.err
}

func (m *mockAnalyzer) Presets() []domain.Preset {
	return domain.AllPresets()
}

// mockSettings implements driving.SettingsService for CLI tests.
type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	pipeline    *domain.PipelineSettings
	temperature *float64
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings()}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return m.setErr
}

func (m *mockSettings) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return m.setErr
}

func (m *mockSettings) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return m.setErr
}

func (m *mockSettings) SetPipeline(p domain.PipelineSettings) error {
	m.pipeline = &p
	return m.setErr
}

func (m *mockSettings) SetTemperature(t float64) error {
	m.temperature = &t
	return m.setErr
}

func (m *mockSettings) Validate() error                 { return m.validateErr }
func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettings) ValidateEmbeddingConfig() error  { return nil }
func (m *mockSettings) ValidateLLMConfig() error        { return nil }

// resetFlags clears the package-level flag values between executions.
func resetFlags() {
	analyzeMode, analyzeQuestion, analyzeTopK = "", "", 0
	analyzeJSON, analyzeShowContext, analyzeWatch = false, false, false
	retrieveMode, retrieveQuestion, retrieveTopK, retrieveJSON = "", "", 0, false
	presetsJSON = false
	apiKeyFlag, ephemeralFlag, verboseFlag = "", false, false
}

// withServices injects services for the duration of the test.
func withServices(t *testing.T, a *mockAnalyzer, s *mockSettings) {
	t.Helper()
	mu.Lock()
	analyzerService, settingsService = nil, nil
	mu.Unlock()
	if a != nil {
		SetAnalyzerService(a)
	}
	if s != nil {
		SetSettingsService(s)
	}
	t.Cleanup(func() {
		mu.Lock()
		analyzerService, settingsService = nil, nil
		factories = Factories{}
		mu.Unlock()
	})
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeIn(t, "", args...)
}

// executeIn is execute with input on stdin.
func executeIn(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
