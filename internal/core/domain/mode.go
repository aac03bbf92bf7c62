package domain

import (
	"strconv"
	"strings"
)

// Mode identifies which question is asked about a résumé.
type Mode string

// Available analysis modes.
const (
	// ModeFull asks for a thorough review.
	ModeFull Mode = "full"

	// ModeATS asks for an ATS friendliness score and missing keywords.
	ModeATS Mode = "ats"

	// ModeStrengths asks for the candidate's key strengths.
	ModeStrengths Mode = "strengths"

	// ModeImprovements asks for actionable improvement suggestions.
	ModeImprovements Mode = "improvements"

	// ModeDataScience asks how well the résumé fits a data science role.
	ModeDataScience Mode = "datascience"

	// ModeCustom uses a question supplied by the caller.
	ModeCustom Mode = "custom"
)

// Preset pairs a mode with its display label and fixed question.
type Preset struct {
	Mode     Mode   `json:"mode"`
	Label    string `json:"label"`
	Question string `json:"question,omitempty"`
}

var presets = []Preset{
	{
		Mode:     ModeFull,
		Label:    "Full Analysis",
		Question: "Analyze this resume thoroughly and suggest improvements.",
	},
	{
		Mode:     ModeATS,
		Label:    "ATS Score & Keywords",
		Question: "Rate this resume's ATS friendliness out of 10 and list the top missing keywords for a software/data engineering role.",
	},
	{
		Mode:     ModeStrengths,
		Label:    "Strengths Only",
		Question: "List all the key strengths of this candidate in detail.",
	},
	{
		Mode:     ModeImprovements,
		Label:    "Improvement Suggestions",
		Question: "Give me specific, actionable improvement suggestions for this resume.",
	},
	{
		Mode:     ModeDataScience,
		Label:    "Tailored for Data Science",
		Question: "How well does this resume fit a Data Science / ML role? What should be added or changed?",
	},
	{
		Mode:  ModeCustom,
		Label: "Custom Question",
	},
}

// AllPresets returns the presets in display order. Custom is last.
func AllPresets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// DefaultMode is used when the caller does not pick one.
const DefaultMode = ModeFull

// IsValid returns true if the mode is recognised.
func (m Mode) IsValid() bool {
	_, ok := m.preset()
	return ok
}

// String returns the string representation.
func (m Mode) String() string {
	return string(m)
}

// Label returns the human-readable label of the mode.
func (m Mode) Label() string {
	if p, ok := m.preset(); ok {
		return p.Label
	}
	return unknownDescription
}

// Question returns the fixed question for preset modes, empty for custom.
func (m Mode) Question() string {
	if p, ok := m.preset(); ok {
		return p.Question
	}
	return ""
}

func (m Mode) preset() (Preset, bool) {
	for _, p := range presets {
		if p.Mode == m {
			return p, true
		}
	}
	return Preset{}, false
}

// ParseMode accepts a mode tag, a label (case-insensitive) or a 1-based
// preset number. An empty string yields DefaultMode.
func ParseMode(s string) (Mode, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultMode, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= len(presets) {
			return presets[n-1].Mode, true
		}
		return "", false
	}
	for _, p := range presets {
		if strings.EqualFold(string(p.Mode), s) || strings.EqualFold(p.Label, s) {
			return p.Mode, true
		}
	}
	return "", false
}

// Query is the question asked about a document.
type Query struct {
	Mode Mode
	Text string
}

// ResolveQuery turns a mode and an optional custom question into a Query.
// Preset modes ignore the custom text. Custom mode requires non-blank text.
func ResolveQuery(mode Mode, custom string) (Query, error) {
	if mode == "" {
		mode = DefaultMode
	}
	if !mode.IsValid() {
		return Query{}, NewPipelineError(ErrConfiguration, StageConfigure, 0,
			&InvalidValueError{Field: "mode", Value: string(mode)})
	}
	if mode == ModeCustom {
		text := strings.TrimSpace(custom)
		if text == "" {
			return Query{}, NewPipelineError(ErrConfiguration, StageConfigure, 0, ErrEmptyQuestion)
		}
		return Query{Mode: mode, Text: text}, nil
	}
	return Query{Mode: mode, Text: mode.Question()}, nil
}

// InvalidValueError reports an out-of-range or unrecognised setting.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements error.
func (e *InvalidValueError) Error() string {
	msg := "invalid " + e.Field
	if e.Value != "" {
		msg += " " + strconv.Quote(e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Unwrap makes InvalidValueError match ErrInvalidInput.
func (e *InvalidValueError) Unwrap() error {
	return ErrInvalidInput
}
