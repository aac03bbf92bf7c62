package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(&Ports{Analyzer: &MockAnalyzerService{}})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(NewPorts(&MockAnalyzerService{}, nil))

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingAnalyzer)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(&Ports{Analyzer: &MockAnalyzerService{}})

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_WithFile(t *testing.T) {
	app, _ := NewApp(&Ports{Analyzer: &MockAnalyzerService{}})

	app.WithFile("")
	assert.Equal(t, messages.ViewMenu, app.CurrentView())

	app.WithFile("cv.pdf")
	assert.Equal(t, messages.ViewAnalyze, app.CurrentView())
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(&Ports{Analyzer: &MockAnalyzerService{}})
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(&Ports{Analyzer: &MockAnalyzerService{}})

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Resume ATS")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ViewChanged(t *testing.T) {
	tests := []struct {
		view    messages.ViewType
		wantCmd bool
		render  string
	}{
		{view: messages.ViewAnalyze, wantCmd: true, render: "Analyze a résumé"},
		{view: messages.ViewSettings, wantCmd: true, render: "Settings"},
		{view: messages.ViewHelp, render: "ctrl+r"},
		{view: messages.ViewAnswer, render: "No analysis yet."},
		{view: messages.ViewMenu, render: "Resume ATS"},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app := newTestApp(t)

			_, cmd := app.Update(messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Equal(t, tt.wantCmd, cmd != nil)
			assert.Contains(t, app.View(), tt.render)
		})
	}
}

func TestApp_HelpKeys(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())

	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_MenuSelectsAnalyze(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewAnalyze, app.CurrentView())
}

func TestApp_AnalysisCompletedShowsAnswer(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewAnalyze})
	analysis := &domain.Analysis{
		Answer:    "Strong Go background.",
		ModeLabel: domain.ModeStrengths.Label(),
	}

	app.Update(messages.AnalysisStarted{})
	app.Update(messages.AnalysisCompleted{Analysis: analysis})

	assert.Equal(t, messages.ViewAnswer, app.CurrentView())
	assert.Equal(t, analysis, app.Analysis())
	assert.NoError(t, app.Err())
	assert.Contains(t, app.View(), domain.ModeStrengths.Label())
}

func TestApp_AnalysisFailedShowsError(t *testing.T) {
	app := newTestApp(t)
	failure := domain.NewPipelineError(domain.ErrLoad, domain.StageLoad, 0, domain.ErrNoText)

	app.Update(messages.AnalysisCompleted{Err: failure})

	assert.Equal(t, messages.ViewAnswer, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrNoText)
	assert.Contains(t, app.View(), "Analysis failed")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_SettingsLoadedRouted(t *testing.T) {
	app, err := NewApp(&Ports{Analyzer: &MockAnalyzerService{}})
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	app.Update(messages.ViewChanged{View: messages.ViewSettings})

	app.Update(messages.SettingsLoaded{Err: errors.New("no config")})

	assert.Contains(t, app.View(), "Error: no config")
}
