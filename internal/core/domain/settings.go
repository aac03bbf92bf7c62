package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the built-in deterministic hashing embedder.
	AIProviderLocal AIProvider = "local"

	// AIProviderMiniLM is a local sentence-transformer run in-process.
	AIProviderMiniLM AIProvider = "minilm"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGoogle is the Google Gemini cloud API.
	AIProviderGoogle AIProvider = "google"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderMiniLM, AIProviderOllama,
		AIProviderOpenAI, AIProviderAnthropic, AIProviderGoogle:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGoogle
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal || p == AIProviderMiniLM
}

// NeedsBaseURL returns true if the provider is reached over a configurable endpoint.
func (p AIProvider) NeedsBaseURL() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the environment variable conventionally holding the key.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local hashing (built-in, deterministic)"
	case AIProviderMiniLM:
		return "MiniLM (local sentence-transformer)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGoogle:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Dimensions is the vector size for the local hashing embedder.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Temperature is the sampling temperature in [0, 1].
	Temperature float64

	// MaxTokens caps the answer length. Zero leaves it to the provider.
	MaxTokens int

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendMemory is the built-in brute-force cosine index.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendChromem is an in-memory chromem-go collection.
	IndexBackendChromem IndexBackend = "chromem"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	return b == IndexBackendMemory || b == IndexBackendChromem
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// PipelineSettings holds chunking and retrieval parameters.
type PipelineSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by consecutive chunks.
	ChunkOverlap int

	// TopK is the number of chunks retrieved per question.
	TopK int

	// ContextBudget caps the context in tokens. Zero means unbounded.
	ContextBudget int

	// IndexBackend selects the vector index implementation.
	IndexBackend IndexBackend
}

// Validate checks the chunking and retrieval parameters.
func (p PipelineSettings) Validate() error {
	switch {
	case p.ChunkSize <= 0:
		return &InvalidValueError{Field: "chunk_size", Value: fmt.Sprint(p.ChunkSize), Reason: "must be positive"}
	case p.ChunkOverlap < 0:
		return &InvalidValueError{Field: "chunk_overlap", Value: fmt.Sprint(p.ChunkOverlap), Reason: "must not be negative"}
	case p.ChunkOverlap >= p.ChunkSize:
		return &InvalidValueError{Field: "chunk_overlap", Value: fmt.Sprint(p.ChunkOverlap), Reason: "must be smaller than chunk_size"}
	case p.TopK < 1:
		return &InvalidValueError{Field: "top_k", Value: fmt.Sprint(p.TopK), Reason: "must be at least 1"}
	case p.ContextBudget < 0:
		return &InvalidValueError{Field: "context_budget", Value: fmt.Sprint(p.ContextBudget), Reason: "must not be negative"}
	case p.IndexBackend != "" && !p.IndexBackend.IsValid():
		return &InvalidValueError{Field: "index_backend", Value: string(p.IndexBackend)}
	}
	return nil
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Pipeline holds chunking and retrieval settings.
	Pipeline PipelineSettings
}

// Validate checks every section that has constraints.
func (s AppSettings) Validate() error {
	if err := s.Pipeline.Validate(); err != nil {
		return err
	}
	if s.LLM.Temperature < 0 || s.LLM.Temperature > 1 {
		return &InvalidValueError{Field: "temperature", Value: fmt.Sprint(s.LLM.Temperature), Reason: "must be within [0, 1]"}
	}
	if s.LLM.Timeout < 0 {
		return &InvalidValueError{Field: "timeout", Value: s.LLM.Timeout.String(), Reason: "must not be negative"}
	}
	return nil
}

// Default pipeline values.
const (
	DefaultChunkSize     = 800
	DefaultChunkOverlap  = 100
	DefaultTopK          = 3
	DefaultTemperature   = 0.7
	DefaultGenTimeout    = 120 * time.Second
	DefaultHashDimension = 384
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM credential is left empty and resolved at startup.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderLocal,
			Model:      DefaultEmbeddingModels()[AIProviderLocal],
			Dimensions: DefaultHashDimension,
		},
		LLM: LLMSettings{
			Provider:    AIProviderGoogle,
			Model:       DefaultLLMModels()[AIProviderGoogle],
			Temperature: DefaultTemperature,
			Timeout:     DefaultGenTimeout,
		},
		Pipeline: PipelineSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			TopK:         DefaultTopK,
			IndexBackend: IndexBackendMemory,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLocal,
		AIProviderMiniLM,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGoogle,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGoogle,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// SupportsEmbedding returns true if p appears in AllEmbeddingProviders.
func (p AIProvider) SupportsEmbedding() bool {
	for _, e := range AllEmbeddingProviders() {
		if e == p {
			return true
		}
	}
	return false
}

// SupportsLLM returns true if p appears in AllLLMProviders.
func (p AIProvider) SupportsLLM() bool {
	for _, l := range AllLLMProviders() {
		if l == p {
			return true
		}
	}
	return false
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderLocal:  "hashing-v1",
		AIProviderMiniLM: "sentence-transformers/all-MiniLM-L6-v2",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGoogle: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGoogle:    "gemini-2.5-flash",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Local models
		"hashing-v1":                             DefaultHashDimension,
		"sentence-transformers/all-MiniLM-L6-v2": 384,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Google models
		"text-embedding-004": 768,
	}
}
