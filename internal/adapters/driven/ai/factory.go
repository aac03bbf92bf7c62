// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	hashingembed "github.com/custodia-labs/resume-ats/internal/adapters/driven/embedding/hashing"
	langchainembed "github.com/custodia-labs/resume-ats/internal/adapters/driven/embedding/langchain"
	minilmembed "github.com/custodia-labs/resume-ats/internal/adapters/driven/embedding/minilm"
	ollamaembed "github.com/custodia-labs/resume-ats/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/resume-ats/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/resume-ats/internal/adapters/driven/llm/anthropic"
	googlellm "github.com/custodia-labs/resume-ats/internal/adapters/driven/llm/googleai"
	ollamallm "github.com/custodia-labs/resume-ats/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/resume-ats/internal/adapters/driven/llm/openai"
	chromemindex "github.com/custodia-labs/resume-ats/internal/adapters/driven/vectorindex/chromem"
	memoryindex "github.com/custodia-labs/resume-ats/internal/adapters/driven/vectorindex/memory"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult holds the driven services built from settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService // Nil when no credential was resolved.
	IndexBuilder     driven.VectorIndexBuilder
	Warnings         []string // Non-fatal issues, such as a missing credential.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close() //nolint:errcheck
	}
	if r.LLMService != nil {
		r.LLMService.Close() //nolint:errcheck
	}
}

// Init builds every service the analyzer needs. A missing LLM credential is
// not fatal here: it is reported as a warning and surfaces as a
// generation error when an analysis is requested.
func Init(settings *domain.AppSettings) (*InitResult, error) {
	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'resume-ats settings' to fix", domain.ErrConfiguration, err)
	}

	result := &InitResult{
		EmbeddingService: embedder,
		IndexBuilder:     CreateIndexBuilder(settings.Pipeline.IndexBackend),
	}

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("%w: %w. Run 'resume-ats settings' to fix", domain.ErrConfiguration, err)
	}
	if llm == nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no API key for %s: set %s or run 'resume-ats settings llm'",
			settings.LLM.Provider, settings.LLM.Provider.APIKeyEnv()))
	}
	result.LLMService = llm
	return result, nil
}

// InitAndValidate is Init with a connectivity check of the embedder and,
// when a credential is present, the LLM. Long-running front ends use it so
// a wrong key or an unreachable server fails at startup.
func InitAndValidate(settings *domain.AppSettings) (*InitResult, error) {
	embedder, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}

	result := &InitResult{
		EmbeddingService: embedder,
		IndexBuilder:     CreateIndexBuilder(settings.Pipeline.IndexBackend),
	}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if errors.Is(err, domain.ErrMissingCredential) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no API key for %s: only retrieval will work", settings.LLM.Provider))
		return result, nil
	}
	if err != nil {
		result.Close()
		return nil, err
	}
	result.LLMService = llm
	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'resume-ats settings' to fix", domain.ErrEmbedding, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'resume-ats settings' to fix",
			domain.ErrEmbedding, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w. Run 'resume-ats settings' to fix",
			domain.ErrGeneration, domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrMissingCredential)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: %w: service unreachable (%w). Run 'resume-ats settings' to fix",
			domain.ErrGeneration, domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use by the settings commands to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// An unconfigured provider is not an error.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Nil settings give the default local hashing embedder.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		defaults := domain.DefaultAppSettings().Embedding
		settings = &defaults
	}

	switch settings.Provider {
	case domain.AIProviderLocal, "":
		return hashingembed.NewEmbeddingService(hashingembed.Config{
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderMiniLM:
		return minilmembed.NewEmbeddingService(minilmembed.Config{
			Model: settings.Model,
		}), nil

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderGoogle:
		return langchainembed.NewGoogleEmbeddingService(context.Background(), langchainembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not offer embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use local, minilm, ollama, openai or google")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider still needs a credential.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}
	if !settings.Provider.SupportsLLM() {
		return nil, fmt.Errorf("unsupported LLM provider: %q", settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGoogle:
		return googlellm.NewLLMService(context.Background(), googlellm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	default:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
	}
}

// CreateIndexBuilder returns the vector index builder for backend.
// Unknown or empty backends use the in-memory index.
func CreateIndexBuilder(backend domain.IndexBackend) driven.VectorIndexBuilder {
	if backend == domain.IndexBackendChromem {
		return chromemindex.NewBuilder()
	}
	return memoryindex.NewBuilder()
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}
