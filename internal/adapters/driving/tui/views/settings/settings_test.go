package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	return m.Called(provider, model, apiKey).Error(0)
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	return m.Called(provider, model, apiKey).Error(0)
}

func (m *MockSettingsService) SetPipeline(pipeline domain.PipelineSettings) error {
	return m.Called(pipeline).Error(0)
}

func (m *MockSettingsService) SetTemperature(temperature float64) error {
	return m.Called(temperature).Error(0)
}

func (m *MockSettingsService) Validate() error {
	return m.Called().Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return m.Called().Get(0).(domain.AppSettings)
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	return m.Called().Error(0)
}

func (m *MockSettingsService) ValidateLLMConfig() error {
	return m.Called().Error(0)
}

func testSettings() *domain.AppSettings {
	s := domain.DefaultAppSettings()
	return &s
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedView(svc *MockSettingsService) *View {
	v := NewView(styles.DefaultStyles(), svc)
	v.getenv = func(string) string { return "" }
	v.SetDimensions(120, 40)
	v.Update(messages.SettingsLoaded{Settings: testSettings()})
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, SectionOverview, v.CurrentSection())
	assert.Nil(t, v.Settings())
}

func TestInit_LoadsSettings(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Get").Return(testSettings(), nil)

	msg := NewView(nil, svc).Init()()

	loaded, ok := msg.(messages.SettingsLoaded)
	require.True(t, ok)
	require.NoError(t, loaded.Err)
	assert.Equal(t, domain.AIProviderGoogle, loaded.Settings.LLM.Provider)
	svc.AssertExpectations(t)
}

func TestInit_NoService(t *testing.T) {
	msg := NewView(nil, nil).Init()()

	loaded, ok := msg.(messages.SettingsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoService)
}

func TestUpdate_SettingsLoadedError(t *testing.T) {
	v := NewView(nil, nil)

	v.Update(messages.SettingsLoaded{Err: errors.New("disk full")})

	assert.EqualError(t, v.Err(), "disk full")
	assert.Contains(t, v.View(), "Error: disk full")
	assert.Contains(t, v.View(), "Loading settings...")
}

func TestView_Overview(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Validate").Return(nil)
	v := loadedView(svc)

	out := v.View()
	assert.Contains(t, out, "Local hashing")
	assert.Contains(t, out, "Google Gemini")
	assert.Contains(t, out, "[needs API key]")
	assert.Contains(t, out, "chunk size 800, overlap 100, top-k 3")
	assert.Contains(t, out, "Configuration is valid")
}

func TestView_OverviewKeyFromEnv(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("Validate").Return(errors.New("LLM key missing"))
	v := loadedView(svc)
	v.getenv = func(name string) string {
		if name == "GOOGLE_API_KEY" {
			return "secret"
		}
		return ""
	}

	out := v.View()
	assert.Contains(t, out, "[key from $GOOGLE_API_KEY]")
	assert.Contains(t, out, "Warning: LLM key missing")
}

func TestEscFromOverview(t *testing.T) {
	_, cmd := loadedView(new(MockSettingsService)).Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestEnterSection_SelectsCurrentProvider(t *testing.T) {
	v := loadedView(new(MockSettingsService))

	v.Update(runes("j"))
	v.Update(key(tea.KeyEnter))

	assert.Equal(t, SectionLLM, v.CurrentSection())
	assert.Equal(t, domain.AIProviderGoogle, v.providers()[v.selected])

	v.Update(key(tea.KeyEsc))
	assert.Equal(t, SectionOverview, v.CurrentSection())
	assert.Equal(t, 1, v.selected)
}

func TestSaveLocalEmbeddingProvider(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("SetEmbeddingProvider", domain.AIProviderMiniLM,
		"sentence-transformers/all-MiniLM-L6-v2", "").Return(nil)
	svc.On("Get").Return(testSettings(), nil)
	v := loadedView(svc)

	v.Update(key(tea.KeyEnter))
	require.Equal(t, SectionEmbedding, v.CurrentSection())
	v.Update(runes("j"))

	_, cmd := v.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	saved, ok := cmd().(messages.SettingsSaved)
	require.True(t, ok)
	require.NoError(t, saved.Err)

	_, reload := v.Update(saved)
	assert.Equal(t, SectionOverview, v.CurrentSection())
	require.NotNil(t, reload)
	assert.IsType(t, messages.SettingsLoaded{}, reload())
	svc.AssertExpectations(t)
}

func TestSaveLLMProviderWithKey(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("SetLLMProvider", domain.AIProviderGoogle, "gemini-2.5-flash", "abc123").Return(nil)
	v := loadedView(svc)

	v.Update(runes("j"))
	v.Update(key(tea.KeyEnter))

	v.Update(key(tea.KeyEnter))
	require.True(t, v.keyFocused)
	assert.Contains(t, v.View(), "Leave blank to read $GOOGLE_API_KEY")

	v.Update(runes("abc123"))
	_, cmd := v.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	saved := cmd().(messages.SettingsSaved)
	require.NoError(t, saved.Err)
	svc.AssertExpectations(t)
}

func TestSaveError_StaysInSection(t *testing.T) {
	svc := new(MockSettingsService)
	svc.On("SetEmbeddingProvider", domain.AIProviderLocal, "hashing-v1", "").Return(errors.New("invalid"))
	v := loadedView(svc)

	v.Update(key(tea.KeyEnter))
	_, cmd := v.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)

	v.Update(cmd())
	assert.Equal(t, SectionEmbedding, v.CurrentSection())
	assert.EqualError(t, v.Err(), "invalid")
}

func TestTabTogglesKeyField(t *testing.T) {
	v := loadedView(new(MockSettingsService))
	v.Update(runes("j"))
	v.Update(key(tea.KeyEnter))

	v.Update(key(tea.KeyTab))
	assert.True(t, v.keyFocused)
	v.Update(key(tea.KeyTab))
	assert.False(t, v.keyFocused)
}

func TestReset(t *testing.T) {
	v := loadedView(new(MockSettingsService))
	v.Update(key(tea.KeyEnter))
	v.err = errors.New("old")

	v.Reset()

	assert.Equal(t, SectionOverview, v.CurrentSection())
	assert.NoError(t, v.Err())
}
