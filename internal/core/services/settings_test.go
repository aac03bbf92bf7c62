package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resume-ats/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore(nil)
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
	assert.Equal(t, domain.AIProviderGoogle, settings.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", settings.LLM.Model)
	assert.InDelta(t, 0.7, settings.LLM.Temperature, 1e-9)
	assert.Equal(t, 120*time.Second, settings.LLM.Timeout)
	assert.Equal(t, 800, settings.Pipeline.ChunkSize)
	assert.Equal(t, 100, settings.Pipeline.ChunkOverlap)
	assert.Equal(t, 3, settings.Pipeline.TopK)
	assert.Zero(t, settings.Pipeline.ContextBudget)
	assert.Equal(t, domain.IndexBackendMemory, settings.Pipeline.IndexBackend)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"embedding.provider":      "openai",
		"embedding.model":         "text-embedding-3-large",
		"llm.provider":            "anthropic",
		"llm.temperature":         0.2,
		"llm.max_tokens":          int64(512),
		"llm.timeout":             "45s",
		"pipeline.chunk_size":     int64(500),
		"pipeline.chunk_overlap":  int64(0),
		"pipeline.top_k":          int64(5),
		"pipeline.context_budget": int64(1500),
		"pipeline.index_backend":  "chromem",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model, "model default follows the provider")
	assert.InDelta(t, 0.2, settings.LLM.Temperature, 1e-9)
	assert.Equal(t, 512, settings.LLM.MaxTokens)
	assert.Equal(t, 45*time.Second, settings.LLM.Timeout)
	assert.Equal(t, 500, settings.Pipeline.ChunkSize)
	assert.Equal(t, 0, settings.Pipeline.ChunkOverlap, "explicit zero overlap is kept")
	assert.Equal(t, 5, settings.Pipeline.TopK)
	assert.Equal(t, 1500, settings.Pipeline.ContextBudget)
	assert.Equal(t, domain.IndexBackendChromem, settings.Pipeline.IndexBackend)
}

func TestSettingsService_Get_ZeroTemperatureKept(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{"llm.temperature": 0.0})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Zero(t, settings.LLM.Temperature)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"embedding.provider":     "invalid_provider",
		"llm.provider":           "invalid_provider",
		"llm.timeout":            "soon",
		"pipeline.index_backend": "faiss",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.LLM.Timeout, settings.LLM.Timeout)
	assert.Equal(t, defaults.Pipeline.IndexBackend, settings.Pipeline.IndexBackend)
}

func TestSettingsService_Save_RoundTrip(t *testing.T) {
	store := memory.NewConfigStore(nil)
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Embedding = domain.EmbeddingSettings{
		Provider:   domain.AIProviderOpenAI,
		Model:      "text-embedding-3-small",
		APIKey:     "sk-test-key",
		Dimensions: 1536,
	}
	settings.LLM.Provider = domain.AIProviderAnthropic
	settings.LLM.Model = "claude-3-5-sonnet-latest"
	settings.LLM.APIKey = "sk-ant-test"
	settings.LLM.Temperature = 0.3
	settings.LLM.Timeout = time.Minute
	settings.Pipeline.TopK = 4

	require.NoError(t, service.Save(&settings))

	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *retrieved)
}

func TestSettingsService_Save_OmitsEmptyAPIKeys(t *testing.T) {
	store := memory.NewConfigStore(nil)
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
	_, ok = store.Get("embedding.api_key")
	assert.False(t, ok)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name         string
		provider     domain.AIProvider
		model        string
		apiKey       string
		wantModel    string
		wantBaseURL  string
		wantDims     int
		wantErr      bool
		errSubstring string
	}{
		{name: "local default model", provider: domain.AIProviderLocal, wantModel: "hashing-v1", wantDims: 384},
		{name: "minilm", provider: domain.AIProviderMiniLM, wantModel: "sentence-transformers/all-MiniLM-L6-v2", wantDims: 384},
		{name: "ollama sets base url", provider: domain.AIProviderOllama, model: "nomic-embed-text",
			wantModel: "nomic-embed-text", wantBaseURL: "http://localhost:11434", wantDims: 768},
		{name: "openai with key", provider: domain.AIProviderOpenAI, apiKey: "sk-test",
			wantModel: "text-embedding-3-small", wantDims: 1536},
		{name: "google with key", provider: domain.AIProviderGoogle, apiKey: "g-test",
			wantModel: "text-embedding-004", wantDims: 768},
		{name: "openai without key", provider: domain.AIProviderOpenAI, wantErr: true, errSubstring: "API key required"},
		{name: "anthropic has no embeddings", provider: domain.AIProviderAnthropic, apiKey: "sk-ant",
			wantErr: true, errSubstring: "does not support embeddings"},
		{name: "unknown provider", provider: "bogus", wantErr: true, errSubstring: "invalid embedding provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(nil), nil)

			err := service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstring)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantModel, settings.Embedding.Model)
			assert.Equal(t, tt.wantBaseURL, settings.Embedding.BaseURL)
			assert.Equal(t, tt.wantDims, settings.Embedding.Dimensions)
			assert.Equal(t, tt.apiKey, settings.Embedding.APIKey)
		})
	}
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	tests := []struct {
		name        string
		provider    domain.AIProvider
		model       string
		apiKey      string
		wantModel   string
		wantBaseURL string
		wantErr     bool
	}{
		{name: "google default", provider: domain.AIProviderGoogle, wantModel: "gemini-2.5-flash"},
		{name: "google custom model", provider: domain.AIProviderGoogle, model: "gemini-2.5-pro", wantModel: "gemini-2.5-pro"},
		{name: "openai with key", provider: domain.AIProviderOpenAI, apiKey: "sk-test", wantModel: "gpt-4o-mini"},
		{name: "anthropic", provider: domain.AIProviderAnthropic, apiKey: "sk-ant", wantModel: "claude-3-5-sonnet-latest"},
		{name: "ollama", provider: domain.AIProviderOllama, wantModel: "llama3.2", wantBaseURL: "http://localhost:11434"},
		{name: "local cannot generate", provider: domain.AIProviderLocal, wantErr: true},
		{name: "unknown", provider: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(nil), nil)

			err := service.SetLLMProvider(tt.provider, tt.model, tt.apiKey)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.LLM.Provider)
			assert.Equal(t, tt.wantModel, settings.LLM.Model)
			assert.Equal(t, tt.wantBaseURL, settings.LLM.BaseURL)
			assert.Equal(t, tt.apiKey, settings.LLM.APIKey)
		})
	}
}

func TestSettingsService_SetLLMProvider_SwitchClearsBaseURL(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))
	require.NoError(t, service.SetLLMProvider(domain.AIProviderGoogle, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Empty(t, settings.LLM.BaseURL)
}

func TestSettingsService_SetPipeline(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), nil)

	err := service.SetPipeline(domain.PipelineSettings{ChunkSize: 400, ChunkOverlap: 50, TopK: 6, ContextBudget: 2000})
	require.NoError(t, err)

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 400, settings.Pipeline.ChunkSize)
	assert.Equal(t, 50, settings.Pipeline.ChunkOverlap)
	assert.Equal(t, 6, settings.Pipeline.TopK)
	assert.Equal(t, 2000, settings.Pipeline.ContextBudget)
	assert.Equal(t, domain.IndexBackendMemory, settings.Pipeline.IndexBackend)
}

func TestSettingsService_SetPipeline_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		pipeline domain.PipelineSettings
		field    string
	}{
		{name: "zero chunk size", pipeline: domain.PipelineSettings{ChunkSize: 0, TopK: 3}, field: "chunk_size"},
		{name: "negative overlap", pipeline: domain.PipelineSettings{ChunkSize: 100, ChunkOverlap: -1, TopK: 3}, field: "chunk_overlap"},
		{name: "overlap equals size", pipeline: domain.PipelineSettings{ChunkSize: 100, ChunkOverlap: 100, TopK: 3}, field: "chunk_overlap"},
		{name: "zero k", pipeline: domain.PipelineSettings{ChunkSize: 100, ChunkOverlap: 10, TopK: 0}, field: "top_k"},
		{name: "unknown backend", pipeline: domain.PipelineSettings{ChunkSize: 100, TopK: 3, IndexBackend: "faiss"}, field: "index_backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore(nil)
			service := NewSettingsService(store, nil)

			err := service.SetPipeline(tt.pipeline)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfiguration)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.field)
			_, saved := store.Get("pipeline.chunk_size")
			assert.False(t, saved, "nothing should be written on failure")
		})
	}
}

func TestSettingsService_SetTemperature(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), nil)

	require.NoError(t, service.SetTemperature(0))
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Zero(t, settings.LLM.Temperature)

	for _, bad := range []float64{-0.1, 1.5} {
		err := service.SetTemperature(bad)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	}
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(nil), nil)
		assert.NoError(t, service.Validate())
	})

	t.Run("overlap not smaller than size", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{
			"pipeline.chunk_size":    int64(100),
			"pipeline.chunk_overlap": int64(100),
		})
		service := NewSettingsService(store, nil)

		err := service.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "resume-ats settings")
	})

	t.Run("temperature out of range", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{"llm.temperature": 2.0})
		service := NewSettingsService(store, nil)

		assert.ErrorIs(t, service.Validate(), domain.ErrConfiguration)
	})

	t.Run("cloud embedder without key", func(t *testing.T) {
		store := memory.NewConfigStore(map[string]any{"embedding.provider": "openai"})
		service := NewSettingsService(store, nil)

		err := service.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), "embedding provider")
	})
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(nil), nil)
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

// failingConfigStore fails Set for one key.
type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if key == f.failOn {
		return errors.New("disk full")
	}
	return f.ConfigStore.Set(key, value)
}

func TestSettingsService_Save_PropagatesStoreError(t *testing.T) {
	tests := []string{"llm.provider", "pipeline.top_k", "llm.api_key"}

	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			store := &failingConfigStore{ConfigStore: memory.NewConfigStore(nil), failOn: key}
			service := NewSettingsService(store, nil)

			settings := domain.DefaultAppSettings()
			settings.LLM.APIKey = "k"
			err := service.Save(&settings)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "disk full")
		})
	}
}

func TestSettingsService_ValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		validator *mockAIConfigValidator
		wantEmbed error
		wantLLM   error
	}{
		{name: "nil validator skips", validator: nil},
		{name: "success", validator: &mockAIConfigValidator{}},
		{
			name:      "errors propagate",
			validator: &mockAIConfigValidator{embedErr: assert.AnError, llmErr: domain.ErrLLMUnavailable},
			wantEmbed: assert.AnError,
			wantLLM:   domain.ErrLLMUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var service *SettingsService
			if tt.validator == nil {
				service = NewSettingsService(memory.NewConfigStore(nil), nil)
			} else {
				service = NewSettingsService(memory.NewConfigStore(nil), tt.validator)
			}

			err := service.ValidateEmbeddingConfig()
			if tt.wantEmbed != nil {
				assert.ErrorIs(t, err, tt.wantEmbed)
			} else {
				assert.NoError(t, err)
			}

			err = service.ValidateLLMConfig()
			if tt.wantLLM != nil {
				assert.ErrorIs(t, err, tt.wantLLM)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
