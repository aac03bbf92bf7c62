package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Ensure AnalyzerService implements the interface.
var _ driving.AnalyzerService = (*AnalyzerService)(nil)

// AnalyzerDeps are the driven ports an analyzer is wired with.
// LLM, Prompts and Tokens may be nil.
type AnalyzerDeps struct {
	Loader   driven.LoaderRegistry
	Chunker  driven.Chunker
	Embedder driven.EmbeddingService
	Index    driven.VectorIndexBuilder
	LLM      driven.LLMService
	Prompts  driven.PromptStore
	Tokens   driven.TokenCounter
}

// AnalyzerService runs Load, Chunk, Embed, Build, Retrieve, Assemble and
// Generate for one document per call. Calls share no mutable state, so
// one service may serve concurrent requests.
type AnalyzerService struct {
	loader    driven.LoaderRegistry
	chunker   driven.Chunker
	embedder  driven.EmbeddingService
	builder   driven.VectorIndexBuilder
	retriever *Retriever
	assembler *PromptAssembler
	generator *Generator
	settings  domain.AppSettings
}

// NewAnalyzerService creates an analyzer. The chunker is expected to be
// configured from the same settings.
func NewAnalyzerService(deps AnalyzerDeps, settings domain.AppSettings) *AnalyzerService {
	return &AnalyzerService{
		loader:    deps.Loader,
		chunker:   deps.Chunker,
		embedder:  deps.Embedder,
		builder:   deps.Index,
		retriever: NewRetriever(deps.Embedder),
		assembler: NewPromptAssembler(deps.Prompts, deps.Tokens, settings.Pipeline.ContextBudget),
		generator: NewGenerator(deps.LLM, GeneratorConfig{
			Temperature: settings.LLM.Temperature,
			MaxTokens:   settings.LLM.MaxTokens,
			Timeout:     settings.LLM.Timeout,
		}),
		settings: settings,
	}
}

// Presets returns the selectable questions.
func (s *AnalyzerService) Presets() []domain.Preset {
	return domain.AllPresets()
}

// Analyze answers the request's question about its document.
func (s *AnalyzerService) Analyze(ctx context.Context, req domain.AnalyzeRequest) (*domain.Analysis, error) {
	start := time.Now()

	query, k, err := s.configure(req)
	if err != nil {
		return nil, err
	}

	// The credential is checked before any document work.
	if err := s.generator.Ready(); err != nil {
		return nil, domain.NewPipelineError(domain.ErrGeneration, domain.StageGenerate, 0, err)
	}

	r, err := s.retrieve(ctx, req, query, k)
	if err != nil {
		return nil, err
	}

	logger.Section("Prompt")
	prompt, err := s.assembler.Assemble(r.Results, query.Text)
	if err != nil {
		return nil, fail(domain.ErrConfiguration, domain.StagePrompt, r.PagesAnalyzed, err)
	}

	logger.Section("Generate")
	answer, err := s.generator.Generate(ctx, prompt.Text)
	if err != nil {
		return nil, fail(domain.ErrGeneration, domain.StageGenerate, r.PagesAnalyzed, err)
	}

	analysis := &domain.Analysis{
		ID:            uuid.New().String(),
		Answer:        answer,
		Mode:          query.Mode,
		ModeLabel:     query.Mode.Label(),
		Question:      query.Text,
		PagesAnalyzed: r.PagesAnalyzed,
		ChunkCount:    r.ChunkCount,
		Context:       prompt.Context,
		Model:         s.generator.ModelName(),
		PromptTokens:  prompt.Tokens,
		Duration:      time.Since(start),
	}
	logger.Info("Analysis %s complete: mode=%s pages=%d chunks=%d in %s",
		analysis.ID, analysis.Mode, analysis.PagesAnalyzed, analysis.ChunkCount,
		analysis.Duration.Round(time.Millisecond))
	return analysis, nil
}

// Retrieve runs the pipeline up to retrieval. It needs no LLM credential.
func (s *AnalyzerService) Retrieve(ctx context.Context, req domain.AnalyzeRequest) (*domain.Retrieval, error) {
	query, k, err := s.configure(req)
	if err != nil {
		return nil, err
	}
	return s.retrieve(ctx, req, query, k)
}

// configure resolves the question and validates every parameter before
// any work is done.
func (s *AnalyzerService) configure(req domain.AnalyzeRequest) (domain.Query, int, error) {
	logger.Section("Configure")

	query, err := domain.ResolveQuery(req.Mode, req.Question)
	if err != nil {
		return domain.Query{}, 0, err
	}

	pipeline := s.settings.Pipeline
	if req.TopK != 0 {
		pipeline.TopK = req.TopK
	}
	settings := s.settings
	settings.Pipeline = pipeline
	if err := settings.Validate(); err != nil {
		return domain.Query{}, 0, domain.NewPipelineError(domain.ErrConfiguration, domain.StageConfigure, 0, err)
	}
	if len(req.Data) == 0 {
		return domain.Query{}, 0, domain.NewPipelineError(domain.ErrLoad, domain.StageLoad, 0,
			fmt.Errorf("%w: empty upload", domain.ErrInvalidInput))
	}

	logger.Debug("Mode: %s, k=%d, question=%q", query.Mode, pipeline.TopK, query.Text)
	return query, pipeline.TopK, nil
}

// retrieve builds a fresh index over the document and looks up the question.
func (s *AnalyzerService) retrieve(
	ctx context.Context, req domain.AnalyzeRequest, query domain.Query, k int,
) (*domain.Retrieval, error) {
	logger.Section("Load")
	doc, err := s.loader.Load(ctx, req.Data, req.Filename)
	if err != nil {
		return nil, fail(domain.ErrLoad, domain.StageLoad, 0, err)
	}
	pages := doc.PageCount()
	logger.Debug("Loaded %q: %d page(s), %d bytes, %s", doc.Name, pages, doc.Size, doc.MIMEType)

	logger.Section("Chunk")
	chunks, err := s.chunker.Chunk(ctx, doc)
	if err != nil {
		return nil, fail(domain.ErrLoad, domain.StageChunk, pages, err)
	}
	if len(chunks) == 0 {
		return nil, fail(domain.ErrLoad, domain.StageChunk, pages, domain.ErrNoText)
	}
	logger.Debug("Chunks: %d", len(chunks))

	logger.Section("Embed")
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fail(domain.ErrEmbedding, domain.StageEmbed, pages, err)
	}
	if len(vectors) != len(chunks) {
		return nil, fail(domain.ErrEmbedding, domain.StageEmbed, pages,
			fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)))
	}
	logger.Debug("Embedded with %s (%d dimensions)", s.embedder.ModelName(), s.embedder.Dimensions())

	logger.Section("Index")
	entries := make([]driven.IndexEntry, len(chunks))
	for i := range chunks {
		entries[i] = driven.IndexEntry{Chunk: chunks[i], Vector: vectors[i]}
	}
	index, err := s.builder.Build(ctx, entries)
	if err != nil {
		return nil, fail(domain.ErrIndex, domain.StageIndex, pages, err)
	}
	defer index.Close() //nolint:errcheck
	logger.Debug("Built %s index with %d entries", s.builder.Name(), index.Len())

	logger.Section("Retrieve")
	results, err := s.retriever.Retrieve(ctx, index, query.Text, k)
	if err != nil {
		return nil, fail(domain.ErrIndex, domain.StageRetrieve, pages, err)
	}

	return &domain.Retrieval{
		Question:      query.Text,
		Mode:          query.Mode,
		PagesAnalyzed: pages,
		ChunkCount:    len(chunks),
		Results:       results,
	}, nil
}

// fail wraps err as a pipeline error. A kind already carried by err wins
// over the stage default.
func fail(kind error, stage domain.Stage, pages int, err error) error {
	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		if pe.Pages == 0 {
			pe.Pages = pages
		}
		return pe
	}
	if k := domain.KindOf(err); k != nil {
		kind = k
	}
	logger.Debug("%s failed: %v", stage, err)
	return domain.NewPipelineError(kind, stage, pages, err)
}
