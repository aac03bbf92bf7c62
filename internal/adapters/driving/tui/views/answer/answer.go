// Package answer provides the view that shows an analysis result.
package answer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// chrome is the number of lines used around the viewport.
const chrome = 4

// View shows an answer, or the error that prevented one.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	viewport viewport.Model

	analysis     *domain.Analysis
	err          error
	showPassages bool

	width  int
	height int
}

// NewView creates an empty answer view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		viewport: viewport.New(80, 24-chrome),
		width:    80,
		height:   24,
	}
}

// SetResult replaces the displayed result.
func (v *View) SetResult(analysis *domain.Analysis, err error) {
	v.analysis = analysis
	v.err = err
	v.showPassages = false
	v.refresh()
	v.viewport.GotoTop()
}

// Update handles messages for the answer view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.AnalysisCompleted:
		v.SetResult(msg.Analysis, msg.Err)
		return v, nil

	case tea.KeyMsg:
		key := msg.String()
		switch {
		case keymap.Matches(key, v.keymap.Back):
			return v, changeView(messages.ViewMenu)
		case keymap.Matches(key, v.keymap.Again):
			return v, changeView(messages.ViewAnalyze)
		case keymap.Matches(key, v.keymap.Passages):
			v.showPassages = !v.showPassages
			v.refresh()
			return v, nil
		case keymap.Matches(key, v.keymap.Quit):
			return v, tea.Quit
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg { return messages.ViewChanged{View: view} }
}

// View renders the header, the scrollable body and the key hints.
func (v *View) View() string {
	var b strings.Builder

	title := "Analysis"
	if v.analysis != nil {
		title = v.analysis.ModeLabel
	}
	if v.err != nil {
		title = "Analysis failed"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[esc] menu  [n] new analysis  [p] passages  [↑/↓] scroll  [q] quit"))

	return b.String()
}

// refresh rebuilds the viewport content.
func (v *View) refresh() {
	v.viewport.SetContent(v.content())
}

func (v *View) content() string {
	if v.err != nil {
		return v.renderError()
	}
	if v.analysis == nil {
		return v.styles.Muted.Render("No analysis yet.")
	}

	a := v.analysis
	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))

	var b strings.Builder
	if a.Question != "" {
		b.WriteString(v.styles.Subtitle.Render("Question: "))
		b.WriteString(wrap.Render(a.Question))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Pages: %d  Chunks: %d  Model: %s  Time: %s",
		a.PagesAnalyzed, a.ChunkCount, a.Model, a.Duration.Round(time.Millisecond))))
	b.WriteString("\n\n")
	b.WriteString(wrap.Render(a.Answer))
	b.WriteString("\n")

	if v.showPassages {
		b.WriteString("\n")
		b.WriteString(v.renderPassages(a.Context, wrap))
	}
	return b.String()
}

func (v *View) renderPassages(results []domain.ScoredChunk, wrap lipgloss.Style) string {
	if len(results) == 0 {
		return v.styles.Muted.Render("No passages retrieved.")
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Retrieved passages"))
	b.WriteString("\n")
	for i, r := range results {
		header := fmt.Sprintf("[%d] page %d, score %.3f", i+1, r.Chunk.Page, r.Score)
		b.WriteString(v.styles.Score(r.Score).Render(header))
		b.WriteString("\n")
		b.WriteString(wrap.Render(strings.TrimSpace(r.Chunk.Content)))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (v *View) renderError() string {
	var b strings.Builder
	b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	b.WriteString("\n")

	if hint := hint(v.err); hint != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(hint))
		b.WriteString("\n")
	}
	if pages := domain.PagesOf(v.err); pages > 0 {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d page(s) were loaded before the failure.", pages)))
		b.WriteString("\n")
	}
	return b.String()
}

func hint(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "Set GOOGLE_API_KEY or run 'resume-ats settings llm'."
	case errors.Is(err, domain.ErrUnsupportedType):
		return "Supported formats are PDF, plain text and Markdown."
	case errors.Is(err, domain.ErrNoText):
		return "The document has no selectable text. Scanned PDFs need OCR first."
	case errors.Is(err, domain.ErrTimeout):
		return "The model did not answer in time. Try again or raise the timeout."
	}
	return ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	v.refresh()
}

// Analysis returns the displayed analysis.
func (v *View) Analysis() *domain.Analysis {
	return v.analysis
}

// Err returns the displayed error.
func (v *View) Err() error {
	return v.err
}

// ShowingPassages reports whether retrieved passages are shown.
func (v *View) ShowingPassages() bool {
	return v.showPassages
}
