package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPresets_Verbatim(t *testing.T) {
	presets := AllPresets()
	require.Len(t, presets, 6)

	assert.Equal(t, "Analyze this resume thoroughly and suggest improvements.", presets[0].Question)
	assert.Equal(t, "Rate this resume's ATS friendliness out of 10 and list the top missing keywords for a software/data engineering role.", presets[1].Question)
	assert.Equal(t, "List all the key strengths of this candidate in detail.", presets[2].Question)
	assert.Equal(t, "Give me specific, actionable improvement suggestions for this resume.", presets[3].Question)
	assert.Equal(t, "How well does this resume fit a Data Science / ML role? What should be added or changed?", presets[4].Question)
	assert.Equal(t, ModeCustom, presets[5].Mode)
	assert.Empty(t, presets[5].Question)
}

func TestAllPresets_ReturnsCopy(t *testing.T) {
	p := AllPresets()
	p[0].Question = "changed"
	assert.Equal(t, "Analyze this resume thoroughly and suggest improvements.", AllPresets()[0].Question)
}

func TestMode_Label(t *testing.T) {
	assert.Equal(t, "Full Analysis", ModeFull.Label())
	assert.Equal(t, "ATS Score & Keywords", ModeATS.Label())
	assert.Equal(t, "Strengths Only", ModeStrengths.Label())
	assert.Equal(t, "Improvement Suggestions", ModeImprovements.Label())
	assert.Equal(t, "Tailored for Data Science", ModeDataScience.Label())
	assert.Equal(t, "Custom Question", ModeCustom.Label())
	assert.Equal(t, unknownDescription, Mode("other").Label())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
		ok    bool
	}{
		{input: "", want: ModeFull, ok: true},
		{input: "ats", want: ModeATS, ok: true},
		{input: "ATS", want: ModeATS, ok: true},
		{input: "Strengths Only", want: ModeStrengths, ok: true},
		{input: "2", want: ModeATS, ok: true},
		{input: "6", want: ModeCustom, ok: true},
		{input: " custom ", want: ModeCustom, ok: true},
		{input: "7", ok: false},
		{input: "0", ok: false},
		{input: "bogus", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseMode(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveQuery(t *testing.T) {
	t.Run("preset ignores custom text", func(t *testing.T) {
		q, err := ResolveQuery(ModeStrengths, "ignored")
		require.NoError(t, err)
		assert.Equal(t, ModeStrengths, q.Mode)
		assert.Equal(t, ModeStrengths.Question(), q.Text)
	})

	t.Run("empty mode defaults to full", func(t *testing.T) {
		q, err := ResolveQuery("", "")
		require.NoError(t, err)
		assert.Equal(t, ModeFull, q.Mode)
	})

	t.Run("custom trims question", func(t *testing.T) {
		q, err := ResolveQuery(ModeCustom, "  Is my summary too long?  ")
		require.NoError(t, err)
		assert.Equal(t, "Is my summary too long?", q.Text)
	})

	t.Run("blank custom question", func(t *testing.T) {
		_, err := ResolveQuery(ModeCustom, "   ")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.ErrorIs(t, err, ErrEmptyQuestion)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := ResolveQuery(Mode("poetry"), "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDocument_Helpers(t *testing.T) {
	var nilDoc *Document
	assert.Zero(t, nilDoc.PageCount())
	assert.False(t, nilDoc.HasText())
	assert.Empty(t, nilDoc.Text())

	doc := &Document{Pages: []Page{{Number: 1, Text: "  "}, {Number: 2, Text: "Go"}}}
	assert.Equal(t, 2, doc.PageCount())
	assert.True(t, doc.HasText())
	assert.Equal(t, "  \n\nGo", doc.Text())

	blank := &Document{Pages: []Page{{Number: 1, Text: "\n\t"}}}
	assert.False(t, blank.HasText())
}

func TestChunk_Len(t *testing.T) {
	assert.Equal(t, 5, Chunk{Content: "résum"}.Len())
}
