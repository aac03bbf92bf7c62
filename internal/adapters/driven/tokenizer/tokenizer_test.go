package tokenizer

import (
	"errors"
	"testing"

	"github.com/pkoukk/tiktoken-go"
	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "Go", want: 1},
		{text: "Python", want: 2},
		{text: "résumé!!", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Estimate{}.Count(tt.text))
		})
	}
	assert.Equal(t, "estimate", Estimate{}.Name())
}

func TestTiktoken_FallsBackOnLoadError(t *testing.T) {
	calls := 0
	tk := NewTiktoken("")
	tk.load = func(string) (*tiktoken.Tiktoken, error) {
		calls++
		return nil, errors.New("offline")
	}

	assert.Equal(t, 3, tk.Count("Kubernetes"))
	assert.Equal(t, 1, tk.Count("SQL"))
	assert.Equal(t, "estimate", tk.Name())
	assert.Equal(t, 1, calls)
}

func TestTiktoken_EmptyTextSkipsLoad(t *testing.T) {
	tk := NewTiktoken("cl100k_base")
	tk.load = func(string) (*tiktoken.Tiktoken, error) {
		t.Fatal("encoding should not load for empty text")
		return nil, nil
	}
	assert.Zero(t, tk.Count(""))
}

// TestTiktoken_CL100K may download the BPE ranks on first run.
func TestTiktoken_CL100K(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping tiktoken download in short mode")
	}

	tk := NewTiktoken("")
	if tk.Name() != DefaultEncoding {
		t.Skip("cl100k_base could not be loaded")
	}
	assert.Equal(t, 2, tk.Count("hello world"))
}
