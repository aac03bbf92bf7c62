package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// PromptAssembler fills the review template with retrieved chunks and the question.
type PromptAssembler struct {
	prompts driven.PromptStore
	counter driven.TokenCounter
	budget  int
}

// NewPromptAssembler creates an assembler. A budget of zero leaves the
// context unbounded. prompts may be nil, in which case the built-in
// template is used.
func NewPromptAssembler(prompts driven.PromptStore, counter driven.TokenCounter, budget int) *PromptAssembler {
	return &PromptAssembler{prompts: prompts, counter: counter, budget: budget}
}

// Assemble substitutes the context and question into the template.
// Chunks must be in rank order. Under a budget, whole chunks are kept from
// the top until the next one would not fit. If not even the first fits, it
// is cut down to the budget.
func (a *PromptAssembler) Assemble(chunks []domain.ScoredChunk, question string) (*domain.Prompt, error) {
	template, err := a.template()
	if err != nil {
		return nil, err
	}
	sep := a.load(driven.PromptContextSeparator, domain.DefaultContextSeparator)

	kept, truncated := a.fit(chunks, sep)

	parts := make([]string, len(kept))
	for i := range kept {
		parts[i] = kept[i].Chunk.Content
	}
	joined := strings.Join(parts, sep)

	// A single pass keeps placeholders inside the résumé or question literal.
	text := strings.NewReplacer(
		domain.PlaceholderContext, joined,
		domain.PlaceholderInput, question,
	).Replace(template)

	prompt := &domain.Prompt{
		Text:      text,
		Tokens:    a.count(text),
		Context:   kept,
		Truncated: truncated,
	}
	logger.Debug("Prompt assembled: %d of %d chunks, %d tokens", len(kept), len(chunks), prompt.Tokens)
	return prompt, nil
}

func (a *PromptAssembler) template() (string, error) {
	template := a.load(driven.PromptAnalyze, domain.DefaultAnalyzePrompt)
	for _, p := range []string{domain.PlaceholderContext, domain.PlaceholderInput} {
		if !strings.Contains(template, p) {
			return "", fmt.Errorf("%w: %w", domain.ErrConfiguration, &domain.InvalidValueError{
				Field:  "prompt template",
				Reason: "missing " + p + " placeholder",
			})
		}
	}
	return template, nil
}

func (a *PromptAssembler) load(name, fallback string) string {
	if a.prompts == nil {
		return fallback
	}
	p, err := a.prompts.Load(name)
	if err != nil {
		logger.Warn("prompt %q unavailable, using built-in: %v", name, err)
		return fallback
	}
	return p
}

// fit applies the token budget to the context.
func (a *PromptAssembler) fit(chunks []domain.ScoredChunk, sep string) ([]domain.ScoredChunk, bool) {
	if a.budget <= 0 || len(chunks) == 0 {
		return chunks, false
	}

	sepTokens := a.count(sep)
	used := 0
	kept := make([]domain.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		cost := a.count(c.Chunk.Content)
		if len(kept) > 0 {
			cost += sepTokens
		}
		if used+cost > a.budget {
			break
		}
		used += cost
		kept = append(kept, c)
	}
	if len(kept) > 0 {
		return kept, false
	}

	top := chunks[0]
	top.Chunk.Content = a.truncate(top.Chunk.Content)
	top.Chunk.End = top.Chunk.Start + utf8.RuneCountInString(top.Chunk.Content)
	logger.Debug("Top chunk truncated to fit budget of %d tokens", a.budget)
	return []domain.ScoredChunk{top}, true
}

// truncate returns the longest rune prefix of s within the budget.
func (a *PromptAssembler) truncate(s string) string {
	runes := []rune(s)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if a.count(string(runes[:mid])) <= a.budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

func (a *PromptAssembler) count(s string) int {
	if a.counter == nil {
		return (utf8.RuneCountInString(s) + 3) / 4
	}
	return a.counter.Count(s)
}
