package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLoader implements driven.LoaderRegistry for testing.
type mockLoader struct {
	doc   *domain.Document
	err   error
	calls int
}

func (m *mockLoader) Load(_ context.Context, _ []byte, _ string) (*domain.Document, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

func (m *mockLoader) Register(_ driven.DocumentLoader) {}

func (m *mockLoader) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// mockChunker implements driven.Chunker for testing.
type mockChunker struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockChunker) Name() string {
	return "mock-chunker"
}

func (m *mockChunker) Chunk(_ context.Context, _ *domain.Document) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by text; unknown texts get fallback.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	fallback   []float32
	embedErr   error
	batchErr   error
	short      bool
	embedCalls int
	batchCalls int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i, t := range texts {
		result[i] = m.vector(t)
	}
	if m.short && len(result) > 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbeddingService) Dimensions() int {
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockIndexBuilder implements driven.VectorIndexBuilder for testing.
type mockIndexBuilder struct {
	index    *mockIndex
	buildErr error
	calls    int
	entries  []driven.IndexEntry
}

func (m *mockIndexBuilder) Name() string {
	return "mock-index"
}

func (m *mockIndexBuilder) Build(_ context.Context, entries []driven.IndexEntry) (driven.VectorIndex, error) {
	m.calls++
	m.entries = entries
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	if m.index == nil {
		m.index = &mockIndex{}
	}
	m.index.size = len(entries)
	return m.index, nil
}

// mockIndex implements driven.VectorIndex for testing.
type mockIndex struct {
	results  []domain.ScoredChunk
	queryErr error
	size     int
	lastK    int
	closed   bool
}

func (m *mockIndex) Query(_ context.Context, _ []float32, k int) ([]domain.ScoredChunk, error) {
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockIndex) Len() int {
	return m.size
}

func (m *mockIndex) Dimensions() int {
	return 3
}

func (m *mockIndex) Close() error {
	m.closed = true
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	answer   string
	err      error
	block    bool
	prompts  []string
	lastOpts driven.GenerateOptions
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.lastOpts = opts
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLMService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPromptStore) Reload() {}

// charCounter implements driven.TokenCounter by counting characters, so
// budgets in tests are easy to reason about.
type charCounter struct{}

func (charCounter) Count(text string) int {
	return len([]rune(text))
}

func (charCounter) Name() string {
	return "chars"
}

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	embedErr error
	llmErr   error
}

func (m *mockAIConfigValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	return m.llmErr
}

// --- Test helpers ---

func scored(idx int, score float64, content string) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{
			ID:      content,
			Index:   idx,
			Page:    1,
			End:     len([]rune(content)),
			Content: content,
		},
		Score: score,
	}
}
