// Package tokenizer measures prompt text in model tokens.
//
// The tiktoken counter uses OpenAI's BPE encodings, which are a close
// enough proxy for Gemini and Claude when budgeting context. Loading an
// encoding may need network access on first use. When it fails, the
// counter falls back to an estimate of one token per four runes.
package tokenizer

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Ensure implementations satisfy the interface.
var (
	_ driven.TokenCounter = (*Tiktoken)(nil)
	_ driven.TokenCounter = Estimate{}
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "cl100k_base"

// runesPerToken is the ratio used by the estimate.
const runesPerToken = 4

// Estimate approximates token counts from rune length.
type Estimate struct{}

// Count returns ceil(runes / 4).
func (Estimate) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + runesPerToken - 1) / runesPerToken
}

// Name identifies the encoding.
func (Estimate) Name() string {
	return "estimate"
}

// Tiktoken counts tokens with a tiktoken encoding. The encoding is loaded
// on first use.
type Tiktoken struct {
	encoding string
	load     func(string) (*tiktoken.Tiktoken, error)

	once     sync.Once
	enc      *tiktoken.Tiktoken
	fallback bool
}

// NewTiktoken creates a counter for the named encoding.
func NewTiktoken(encoding string) *Tiktoken {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Tiktoken{encoding: encoding, load: tiktoken.GetEncoding}
}

func (t *Tiktoken) init() {
	t.once.Do(func() {
		enc, err := t.load(t.encoding)
		if err != nil {
			logger.Warn("tokenizer: %s unavailable, estimating tokens: %v", t.encoding, err)
			t.fallback = true
			return
		}
		t.enc = enc
	})
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) int {
	if text == "" {
		return 0
	}
	t.init()
	if t.fallback {
		return Estimate{}.Count(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Name identifies the encoding, or "estimate" after a failed load.
func (t *Tiktoken) Name() string {
	t.init()
	if t.fallback {
		return Estimate{}.Name()
	}
	return t.encoding
}
