// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEmbedding
	SectionLLM
)

// ErrNoService is reported when the view has no settings service.
var ErrNoService = errors.New("settings service not available")

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService
	getenv          func(string) string

	settings *domain.AppSettings
	err      error

	section    Section
	selected   int
	keyFocused bool
	apiKey     textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKey := textinput.New()
	apiKey.Placeholder = "Enter API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		getenv:          os.Getenv,
		apiKey:          apiKey,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.leaveSection()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.leaveSection()
		return v, nil
	}

	if v.section == SectionOverview {
		return v.handleOverviewKeys(msg)
	}
	return v.handleProviderKeys(msg)
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		v.selected = 0
	case "down", "j":
		v.selected = 1
	case "enter":
		if v.selected == 0 {
			v.enterSection(SectionEmbedding)
		} else {
			v.enterSection(SectionLLM)
		}
	}
	return v, nil
}

func (v *View) handleProviderKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := v.providers()
	provider := providers[v.selected]

	if v.keyFocused {
		switch msg.String() {
		case "tab", "shift+tab":
			v.keyFocused = false
			v.apiKey.Blur()
			return v, nil
		case "enter":
			return v, v.save(provider, strings.TrimSpace(v.apiKey.Value()))
		}
		var cmd tea.Cmd
		v.apiKey, cmd = v.apiKey.Update(msg)
		return v, cmd
	}

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case "tab":
		if provider.RequiresAPIKey() {
			v.keyFocused = true
			return v, v.apiKey.Focus()
		}
	case "enter":
		if provider.RequiresAPIKey() {
			v.keyFocused = true
			return v, v.apiKey.Focus()
		}
		return v, v.save(provider, "")
	}
	return v, nil
}

func (v *View) enterSection(section Section) {
	v.section = section
	v.selected = 0
	current := v.current()
	for i, p := range v.providers() {
		if p == current {
			v.selected = i
		}
	}
}

func (v *View) leaveSection() {
	if v.section == SectionLLM {
		v.selected = 1
	} else {
		v.selected = 0
	}
	v.section = SectionOverview
	v.keyFocused = false
	v.apiKey.SetValue("")
	v.apiKey.Blur()
}

func (v *View) providers() []domain.AIProvider {
	if v.section == SectionLLM {
		return domain.AllLLMProviders()
	}
	return domain.AllEmbeddingProviders()
}

func (v *View) current() domain.AIProvider {
	if v.settings == nil {
		return ""
	}
	if v.section == SectionLLM {
		return v.settings.LLM.Provider
	}
	return v.settings.Embedding.Provider
}

func (v *View) defaultModel(provider domain.AIProvider) string {
	if v.section == SectionLLM {
		return domain.DefaultLLMModels()[provider]
	}
	return domain.DefaultEmbeddingModels()[provider]
}

// save persists the provider with its default model.
func (v *View) save(provider domain.AIProvider, apiKey string) tea.Cmd {
	svc := v.settingsService
	llm := v.section == SectionLLM
	model := v.defaultModel(provider)

	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoService}
		}
		if llm {
			return messages.SettingsSaved{Err: svc.SetLLMProvider(provider, model, apiKey)}
		}
		return messages.SettingsSaved{Err: svc.SetEmbeddingProvider(provider, model, apiKey)}
	}
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back"))
	case SectionEmbedding, SectionLLM:
		b.WriteString(v.renderProviders())
		b.WriteString("\n")
		if v.keyFocused {
			b.WriteString(v.styles.Help.Render("[tab] back to list  [enter] save  [esc] cancel"))
		} else {
			b.WriteString(v.styles.Help.Render("[j/k] navigate  [tab] API key  [enter] select  [esc] cancel"))
		}
	}

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder
	s := v.settings

	rows := []string{
		fmt.Sprintf("Embedding: %s (%s) %s", s.Embedding.Provider.Description(), s.Embedding.Model,
			v.keyStatus(s.Embedding.Provider, s.Embedding.APIKey)),
		fmt.Sprintf("LLM:       %s (%s) %s", s.LLM.Provider.Description(), s.LLM.Model,
			v.keyStatus(s.LLM.Provider, s.LLM.APIKey)),
	}
	for i, row := range rows {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + row))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + row))
		}
		b.WriteString("\n")
	}

	p := s.Pipeline
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Pipeline"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf(
		"  chunk size %d, overlap %d, top-k %d, budget %d, index %s, temperature %.2f",
		p.ChunkSize, p.ChunkOverlap, p.TopK, p.ContextBudget, p.IndexBackend, s.LLM.Temperature)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("  edit with 'resume-ats settings pipeline'"))
	b.WriteString("\n\n")

	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render("Warning: " + err.Error()))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// keyStatus describes where a provider's credential comes from.
func (v *View) keyStatus(provider domain.AIProvider, stored string) string {
	switch {
	case !provider.RequiresAPIKey():
		return v.styles.Success.Render("[local]")
	case stored != "":
		return v.styles.Success.Render("[key stored]")
	case v.getenv(provider.APIKeyEnv()) != "":
		return v.styles.Success.Render("[key from $" + provider.APIKeyEnv() + "]")
	default:
		return v.styles.Warning.Render("[needs API key]")
	}
}

func (v *View) renderProviders() string {
	var b strings.Builder

	title := "Select Embedding Provider"
	if v.section == SectionLLM {
		title = "Select LLM Provider"
	}
	b.WriteString(v.styles.Subtitle.Render(title))
	b.WriteString("\n\n")

	providers := v.providers()
	current := v.current()
	for i, provider := range providers {
		line := provider.Description()
		if provider == current {
			line += " (current)"
		}
		if i == v.selected && !v.keyFocused {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
		if model := v.defaultModel(provider); model != "" {
			b.WriteString(v.styles.Muted.Render("    Model: " + model))
			b.WriteString("\n")
		}
	}

	if providers[v.selected].RequiresAPIKey() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("API Key:"))
		b.WriteString("\n")
		b.WriteString(v.apiKey.View())
		b.WriteString("\n")
		if v.section == SectionLLM {
			b.WriteString(v.styles.Muted.Render("Leave blank to read $" + providers[v.selected].APIKeyEnv() + " at run time"))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.apiKey.Width = max(width-10, 20)
}

// Reset returns to the overview.
func (v *View) Reset() {
	v.section = SectionOverview
	v.selected = 0
	v.keyFocused = false
	v.err = nil
	v.apiKey.SetValue("")
	v.apiKey.Blur()
}

// CurrentSection returns the active section.
func (v *View) CurrentSection() Section {
	return v.section
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
