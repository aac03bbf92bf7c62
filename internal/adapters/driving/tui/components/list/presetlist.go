// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/resume-ats/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// PresetList displays the analysis modes as a navigable list.
type PresetList struct {
	presets  []domain.Preset
	selected int
	focused  bool
	styles   *styles.Styles
}

// NewPresetList creates a list with the first preset selected.
func NewPresetList(s *styles.Styles, presets []domain.Preset) *PresetList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &PresetList{presets: presets, styles: s}
}

// Update handles navigation keys while focused.
func (p *PresetList) Update(msg tea.Msg) (*PresetList, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			p.MoveUp()
		case "down", "j":
			p.MoveDown()
		}
	}
	return p, nil
}

// View renders one line per preset, with the question of the selected one.
func (p *PresetList) View() string {
	if len(p.presets) == 0 {
		return p.styles.Muted.Render("No presets")
	}

	lines := make([]string, 0, len(p.presets)+1)
	for i, preset := range p.presets {
		indicator := "  "
		text := fmt.Sprintf("%d. %s", i+1, preset.Label)
		switch {
		case i == p.selected && p.focused:
			lines = append(lines, p.styles.Selected.Render("> "+text))
		case i == p.selected:
			lines = append(lines, p.styles.Subtitle.Render("* "+text))
		default:
			lines = append(lines, p.styles.Normal.Render(indicator+text))
		}
	}

	if q := p.Selected().Question; q != "" {
		lines = append(lines, p.styles.Muted.Render("   "+q))
	}
	return strings.Join(lines, "\n")
}

// Selected returns the selected preset.
func (p *PresetList) Selected() domain.Preset {
	if len(p.presets) == 0 {
		return domain.Preset{}
	}
	return p.presets[p.selected]
}

// SelectedIndex returns the selected position.
func (p *PresetList) SelectedIndex() int {
	return p.selected
}

// Select moves the selection to mode if present.
func (p *PresetList) Select(mode domain.Mode) {
	for i, preset := range p.presets {
		if preset.Mode == mode {
			p.selected = i
			return
		}
	}
}

// MoveUp moves selection up.
func (p *PresetList) MoveUp() {
	if p.selected > 0 {
		p.selected--
	}
}

// MoveDown moves selection down.
func (p *PresetList) MoveDown() {
	if p.selected < len(p.presets)-1 {
		p.selected++
	}
}

// Focus lets the list receive keys.
func (p *PresetList) Focus() {
	p.focused = true
}

// Blur stops the list receiving keys.
func (p *PresetList) Blur() {
	p.focused = false
}

// Focused returns whether the list receives keys.
func (p *PresetList) Focused() bool {
	return p.focused
}

// Count returns the number of presets.
func (p *PresetList) Count() int {
	return len(p.presets)
}
