package analyze

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

type mockAnalyzer struct {
	analysis *domain.Analysis
	err      error
	lastReq  domain.AnalyzeRequest
	calls    int
}

func (m *mockAnalyzer) Analyze(_ context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error) {
	m.calls++
	m.lastReq = req
	return m.analysis, m.err
}

func (m *mockAnalyzer) Retrieve(_ context.Context, _ domain.AnalyzeRequest) (*domain.Retrieval, error) {
	return nil, errors.New("not used")
}

func (m *mockAnalyzer) Presets() []domain.Preset {
	return domain.AllPresets()
}

func newTestView(m *mockAnalyzer) *View {
	v := NewView(nil, m)
	v.readFile = func(path string) ([]byte, error) {
		if path == "missing.pdf" {
			return nil, errors.New("no such file")
		}
		return []byte("Jane Doe\nGo, Kubernetes"), nil
	}
	return v
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and every command inside a batch, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil)

	require.NotNil(t, v)
	assert.Equal(t, FocusFile, v.Focused())
	assert.False(t, v.Running())
	assert.NotNil(t, v.Init())
}

func TestView_FocusCycle(t *testing.T) {
	v := newTestView(&mockAnalyzer{})

	v.Update(key(tea.KeyTab))
	assert.Equal(t, FocusMode, v.Focused())
	v.Update(key(tea.KeyTab))
	assert.Equal(t, FocusQuestion, v.Focused())
	v.Update(key(tea.KeyTab))
	assert.Equal(t, FocusFile, v.Focused())
	v.Update(key(tea.KeyShiftTab))
	assert.Equal(t, FocusQuestion, v.Focused())
}

func TestView_TypingGoesToFocusedField(t *testing.T) {
	v := newTestView(&mockAnalyzer{})

	v.Update(runes("cv.pdf"))
	assert.Equal(t, "cv.pdf", v.file.Value())
	assert.Empty(t, v.question.Value())
}

func TestView_ModeNavigation(t *testing.T) {
	v := newTestView(&mockAnalyzer{})
	v.Update(key(tea.KeyTab))

	v.Update(runes("j"))
	assert.Equal(t, domain.ModeATS, v.presets.Selected().Mode)
	assert.Empty(t, v.file.Value())
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := newTestView(&mockAnalyzer{})

	_, cmd := v.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_SubmitErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		custom  bool
		wantErr error
	}{
		{name: "no file", path: "  ", wantErr: ErrNoFile},
		{name: "blank custom question", path: "cv.pdf", custom: true, wantErr: domain.ErrEmptyQuestion},
		{name: "unreadable file", path: "missing.pdf", wantErr: domain.ErrLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockAnalyzer{}
			v := newTestView(m)
			v.SetPath(tt.path)
			if tt.custom {
				v.presets.Select(domain.ModeCustom)
			}

			_, cmd := v.Update(key(tea.KeyCtrlR))

			assert.Nil(t, cmd)
			assert.ErrorIs(t, v.Err(), tt.wantErr)
			assert.Equal(t, status.StateError, v.status.State())
			assert.Zero(t, m.calls)
			assert.Contains(t, v.View(), v.Err().Error())
		})
	}
}

func TestView_SubmitRunsAnalysis(t *testing.T) {
	m := &mockAnalyzer{analysis: &domain.Analysis{Answer: "ATS Score: 7/10"}}
	v := newTestView(m)
	v.SetPath("/tmp/jane.pdf")
	v.presets.Select(domain.ModeATS)

	_, cmd := v.Update(key(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	assert.True(t, v.Running())
	assert.Equal(t, status.StateAnalyzing, v.status.State())

	msgs := collect(cmd)
	require.Len(t, msgs, 2)

	var completed messages.AnalysisCompleted
	for _, msg := range msgs {
		if c, ok := msg.(messages.AnalysisCompleted); ok {
			completed = c
		}
	}
	require.NoError(t, completed.Err)
	assert.Equal(t, "ATS Score: 7/10", completed.Analysis.Answer)

	assert.Equal(t, 1, m.calls)
	assert.Equal(t, "jane.pdf", m.lastReq.Filename)
	assert.Equal(t, domain.ModeATS, m.lastReq.Mode)
	assert.NotEmpty(t, m.lastReq.Data)

	v.Update(completed)
	assert.False(t, v.Running())
	assert.Equal(t, status.StateDone, v.status.State())
}

func TestView_KeysIgnoredWhileRunning(t *testing.T) {
	v := newTestView(&mockAnalyzer{})
	v.running = true

	_, cmd := v.Update(key(tea.KeyEsc))
	assert.Nil(t, cmd)
	v.Update(runes("x"))
	assert.Empty(t, v.file.Value())
}

func TestView_EnterAdvancesThenRuns(t *testing.T) {
	m := &mockAnalyzer{analysis: &domain.Analysis{}}
	v := newTestView(m)
	v.SetPath("cv.txt")

	v.Update(key(tea.KeyEnter))
	assert.Equal(t, FocusMode, v.Focused())

	v.presets.Select(domain.ModeCustom)
	v.Update(key(tea.KeyEnter))
	assert.Equal(t, FocusQuestion, v.Focused())

	v.Update(runes("Is my summary too long?"))
	_, cmd := v.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	collect(cmd)

	assert.Equal(t, domain.ModeCustom, m.lastReq.Mode)
	assert.Equal(t, "Is my summary too long?", m.lastReq.Question)
}

func TestView_CompletedWithError(t *testing.T) {
	v := newTestView(&mockAnalyzer{})
	v.running = true

	v.Update(messages.AnalysisCompleted{Err: domain.ErrGeneration})

	assert.False(t, v.Running())
	assert.ErrorIs(t, v.Err(), domain.ErrGeneration)
	assert.Equal(t, status.StateError, v.status.State())
}

func TestView_NoAnalyzer(t *testing.T) {
	v := NewView(nil, nil)
	v.readFile = func(string) ([]byte, error) { return []byte("x"), nil }
	v.SetPath("cv.txt")

	_, cmd := v.Update(key(tea.KeyCtrlR))
	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), domain.ErrConfiguration)
}
