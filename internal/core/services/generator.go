package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// GeneratorConfig holds the sampling parameters for one model.
type GeneratorConfig struct {
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Generator sends prompts to a language model under a deadline.
type Generator struct {
	llm driven.LLMService
	cfg GeneratorConfig
}

// NewGenerator creates a generator. llm may be nil when no credential was
// resolved; every call then fails with domain.ErrMissingCredential.
func NewGenerator(llm driven.LLMService, cfg GeneratorConfig) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultGenTimeout
	}
	return &Generator{llm: llm, cfg: cfg}
}

// Ready reports whether a model is configured. Callers use it to fail
// before doing any expensive work.
func (g *Generator) Ready() error {
	if g.llm == nil {
		return fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrMissingCredential)
	}
	return nil
}

// ModelName returns the configured model, or empty when none is set.
func (g *Generator) ModelName() string {
	if g.llm == nil {
		return ""
	}
	return g.llm.ModelName()
}

// Generate returns the model's answer to prompt. Every failure matches
// domain.ErrGeneration.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}
	if g.cfg.Temperature < 0 || g.cfg.Temperature > 1 {
		return "", fmt.Errorf("%w: %w", domain.ErrConfiguration, &domain.InvalidValueError{
			Field: "temperature", Value: fmt.Sprint(g.cfg.Temperature), Reason: "must be within [0, 1]",
		})
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	answer, err := g.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w after %s", domain.ErrGeneration, domain.ErrTimeout, g.cfg.Timeout)
		}
		if errors.Is(err, domain.ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %w", domain.ErrGeneration, g.llm.ModelName(), err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: %s returned an empty answer", domain.ErrGeneration, g.llm.ModelName())
	}

	logger.Debug("Generated %d characters in %s", len(answer), time.Since(start).Round(time.Millisecond))
	return answer, nil
}
