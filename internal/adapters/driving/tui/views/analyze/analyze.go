// Package analyze provides the form that collects a résumé file and a
// question, and runs the analysis.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
)

// Focus identifies the form control receiving keys.
type Focus int

const (
	FocusFile Focus = iota
	FocusMode
	FocusQuestion
)

const focusCount = 3

// ErrNoFile is reported when the form is submitted without a path.
var ErrNoFile = errors.New("enter the path of a résumé file")

// View is the analyze form.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	analyzer driving.AnalyzerService
	ctx      context.Context

	file     *input.Field
	presets  *list.PresetList
	question *input.Field
	status   *status.Bar

	focus   Focus
	running bool
	err     error

	readFile func(string) ([]byte, error)

	width  int
	height int
}

// NewView creates the analyze form.
func NewView(s *styles.Styles, analyzer driving.AnalyzerService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	presets := domain.AllPresets()
	if analyzer != nil {
		presets = analyzer.Presets()
	}

	v := &View{
		styles:   s,
		keymap:   km,
		analyzer: analyzer,
		ctx:      context.Background(),
		file:     input.NewField(s, "File", "path/to/resume.pdf", 1024),
		presets:  list.NewPresetList(s, presets),
		question: input.NewField(s, "Question", "only used with Custom Question", 2000),
		status:   status.NewBar(s, km),
		readFile: os.ReadFile,
		width:    80,
		height:   24,
	}
	v.file.Focus()
	return v
}

// WithContext sets the context analyses run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blinking.
func (v *View) Init() tea.Cmd {
	return v.file.Init()
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.AnalysisCompleted:
		v.running = false
		if msg.Err != nil {
			v.err = msg.Err
			v.status.SetState(status.StateError)
			v.status.SetMessage(msg.Err.Error())
		} else {
			v.err = nil
			v.status.SetState(status.StateDone)
			v.status.SetMessage("")
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	return v.forward(msg)
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.running {
		return v, nil
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(key, v.keymap.NextField):
		return v, v.setFocus((v.focus + 1) % focusCount)
	case keymap.Matches(key, v.keymap.PrevField):
		return v, v.setFocus((v.focus + focusCount - 1) % focusCount)
	case keymap.Matches(key, v.keymap.Run):
		return v, v.submit()
	case keymap.Matches(key, v.keymap.Select):
		switch v.focus {
		case FocusFile:
			return v, v.setFocus(FocusMode)
		case FocusMode:
			if v.presets.Selected().Mode == domain.ModeCustom {
				return v, v.setFocus(FocusQuestion)
			}
		}
		return v, v.submit()
	}

	return v.forward(msg)
}

func (v *View) forward(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	switch v.focus {
	case FocusFile:
		v.file, cmd = v.file.Update(msg)
	case FocusMode:
		v.presets, cmd = v.presets.Update(msg)
	case FocusQuestion:
		v.question, cmd = v.question.Update(msg)
	}
	return v, cmd
}

func (v *View) setFocus(f Focus) tea.Cmd {
	v.focus = f
	v.file.Blur()
	v.presets.Blur()
	v.question.Blur()

	switch f {
	case FocusFile:
		return v.file.Focus()
	case FocusMode:
		v.presets.Focus()
	case FocusQuestion:
		return v.question.Focus()
	}
	return nil
}

// submit validates the form, reads the file and starts the analysis.
func (v *View) submit() tea.Cmd {
	req, err := v.request()
	if err != nil {
		v.err = err
		v.status.SetState(status.StateError)
		v.status.SetMessage(err.Error())
		return nil
	}
	if v.analyzer == nil {
		v.err = fmt.Errorf("%w: analyzer service not available", domain.ErrConfiguration)
		v.status.SetState(status.StateError)
		v.status.SetMessage(v.err.Error())
		return nil
	}

	v.err = nil
	v.running = true
	v.status.SetState(status.StateAnalyzing)
	v.status.SetMessage(req.Filename)

	ctx, analyzer := v.ctx, v.analyzer
	return tea.Batch(
		func() tea.Msg { return messages.AnalysisStarted{Request: req} },
		func() tea.Msg {
			analysis, err := analyzer.Analyze(ctx, req)
			return messages.AnalysisCompleted{Analysis: analysis, Err: err}
		},
	)
}

// request builds the analyze request from the form values.
func (v *View) request() (domain.AnalyzeRequest, error) {
	path := strings.TrimSpace(v.file.Value())
	if path == "" {
		return domain.AnalyzeRequest{}, ErrNoFile
	}

	mode := v.presets.Selected().Mode
	if _, err := domain.ResolveQuery(mode, v.question.Value()); err != nil {
		return domain.AnalyzeRequest{}, err
	}

	data, err := v.readFile(path)
	if err != nil {
		return domain.AnalyzeRequest{}, domain.NewPipelineError(domain.ErrLoad, domain.StageLoad, 0,
			fmt.Errorf("read %s: %w", path, err))
	}

	return domain.AnalyzeRequest{
		Data:     data,
		Filename: filepath.Base(path),
		Mode:     mode,
		Question: v.question.Value(),
	}, nil
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Analyze a résumé"))
	b.WriteString("\n\n")
	b.WriteString(v.file.View())
	b.WriteString("\n\n")
	b.WriteString(v.styles.Subtitle.Render("Mode"))
	b.WriteString("\n")
	b.WriteString(v.presets.View())
	b.WriteString("\n\n")
	if v.presets.Selected().Mode == domain.ModeCustom || v.focus == FocusQuestion {
		b.WriteString(v.question.View())
		b.WriteString("\n\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(v.status.View())

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.file.SetWidth(width)
	v.question.SetWidth(width)
	v.status.SetWidth(width)
}

// SetPath pre-fills the file field.
func (v *View) SetPath(path string) {
	v.file.SetValue(path)
}

// Focused returns the control receiving keys.
func (v *View) Focused() Focus {
	return v.focus
}

// Running reports whether an analysis is in flight.
func (v *View) Running() bool {
	return v.running
}

// Err returns the last validation or analysis error.
func (v *View) Err() error {
	return v.err
}
