package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/views/analyze"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/views/answer"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	menuView     *menu.View
	analyzeView  *analyze.View
	answerView   *answer.View
	settingsView *settings.View

	currentView messages.ViewType

	// analysis is the last completed analysis.
	analysis *domain.Analysis

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		analyzeView:  analyze.NewView(s, ports.Analyzer),
		answerView:   answer.NewView(s),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context analyses run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.analyzeView.WithContext(ctx)
	return a
}

// WithFile pre-fills the analyze form and opens it first.
func (a *App) WithFile(path string) *App {
	if path != "" {
		a.analyzeView.SetPath(path)
		a.currentView = messages.ViewAnalyze
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("resume-ats"),
		a.analyzeView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			switch msg.String() {
			case "esc":
				a.currentView = messages.ViewMenu
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewAnalyze:
			return a, a.analyzeView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewAnswer, messages.ViewHelp:
		}
		return a, nil

	case messages.AnalysisStarted:
		a.err = nil
		return a, nil

	case messages.AnalysisCompleted:
		a.analysis = msg.Analysis
		a.err = msg.Err
		a.analyzeView, _ = a.analyzeView.Update(msg)
		a.answerView, cmd = a.answerView.Update(msg)
		a.currentView = messages.ViewAnswer
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAnalyze:
		a.analyzeView, cmd = a.analyzeView.Update(msg)
	case messages.ViewAnswer:
		a.answerView, cmd = a.answerView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}

	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAnalyze:
		return a.analyzeView.View()
	case messages.ViewAnswer:
		return a.answerView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Analyze:
  tab         Next field (file, mode, question)
  shift+tab   Previous field
  j/k         Choose mode while the mode list is focused
  enter       Next field, or run from the last one
  ctrl+r      Run the analysis

Answer:
  ↑/↓         Scroll
  p           Show or hide retrieved passages
  n           New analysis with the same inputs
  esc         Back to menu

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Analysis returns the last completed analysis.
func (a *App) Analysis() *domain.Analysis {
	return a.analysis
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.analyzeView.SetDimensions(width, height)
	a.answerView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
