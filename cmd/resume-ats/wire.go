package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/resume-ats/internal/adapters/driven/ai"
	"github.com/custodia-labs/resume-ats/internal/adapters/driven/config/file"
	"github.com/custodia-labs/resume-ats/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/resume-ats/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/resume-ats/internal/adapters/driving/cli"
	"github.com/custodia-labs/resume-ats/internal/chunker"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
	"github.com/custodia-labs/resume-ats/internal/core/services"
	"github.com/custodia-labs/resume-ats/internal/credential"
	"github.com/custodia-labs/resume-ats/internal/loaders"
	"github.com/custodia-labs/resume-ats/internal/loaders/pdf"
	"github.com/custodia-labs/resume-ats/internal/loaders/plaintext"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

func newConfigStore(opts cli.Options) (driven.ConfigStore, error) {
	if opts.Ephemeral {
		return memory.NewConfigStore(nil), nil
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("%w: locating config directory: %w", domain.ErrConfiguration, err)
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: opening config: %w", domain.ErrConfiguration, err)
	}
	return store, nil
}

func newSettingsService(opts cli.Options) (driving.SettingsService, error) {
	store, err := newConfigStore(opts)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

// newAnalyzerService resolves credentials, builds the AI adapters from
// settings and assembles the pipeline.
func newAnalyzerService(_ context.Context, opts cli.Options) (driving.AnalyzerService, func(), error) {
	settingsSvc, err := newSettingsService(opts)
	if err != nil {
		return nil, nil, err
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: loading settings: %w", domain.ErrConfiguration, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, nil, domain.NewPipelineError(domain.ErrConfiguration, domain.StageConfigure, 0, err)
	}

	resolver := credential.Resolver{Getenv: os.Getenv}
	if opts.Interactive {
		resolver.Prompt = credential.StdinPrompt(os.Stdin, os.Stderr)
	}
	llmKey, source, err := resolver.Resolve(settings.LLM.Provider, opts.APIKey, settings.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}
	logger.Debug("llm credential source: %s", source)
	settings.LLM.APIKey = llmKey

	// Embedding keys are never prompted for.
	embedKey, _, _ := credential.Resolver{Getenv: os.Getenv}.Resolve(
		settings.Embedding.Provider, "", settings.Embedding.APIKey)
	settings.Embedding.APIKey = embedKey

	initAI := ai.Init
	if opts.CheckServices {
		initAI = ai.InitAndValidate
	}
	result, err := initAI(settings)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}

	var prompts driven.PromptStore
	if !opts.Ephemeral {
		store, err := file.NewPromptStore("")
		if err != nil {
			logger.Warn("prompt overrides disabled: %v", err)
		} else {
			prompts = store
		}
	}

	var tokens driven.TokenCounter = tokenizer.Estimate{}
	if settings.Pipeline.ContextBudget > 0 {
		tokens = tokenizer.NewTiktoken(tokenizer.DefaultEncoding)
	}

	analyzer := services.NewAnalyzerService(services.AnalyzerDeps{
		Loader: loaders.NewRegistry(pdf.New(), plaintext.New()),
		Chunker: chunker.New(
			chunker.WithChunkSize(settings.Pipeline.ChunkSize),
			chunker.WithOverlap(settings.Pipeline.ChunkOverlap),
		),
		Embedder: result.EmbeddingService,
		Index:    result.IndexBuilder,
		LLM:      result.LLMService,
		Prompts:  prompts,
		Tokens:   tokens,
	}, *settings)

	return analyzer, result.Close, nil
}
