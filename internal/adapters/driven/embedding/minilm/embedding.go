// Package minilm provides a local sentence-transformer embedding service
// backed by hugot's pure Go ONNX runtime.
//
// The model is downloaded from Hugging Face on first use and cached under
// the configured model directory.
package minilm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driven"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultDimensions = 384
	onnxFile          = "onnx/model.onnx"
	pipelineName      = "resume-embedder"
)

// Config holds configuration for the MiniLM embedding service.
type Config struct {
	// Model is the Hugging Face model name (default: all-MiniLM-L6-v2).
	Model string

	// ModelDir is where models are cached (default: ~/.resume-ats/models).
	ModelDir string
}

// EmbeddingService embeds text with a sentence-transformer model.
// The model is loaded lazily and shared by all calls.
type EmbeddingService struct {
	model    string
	modelDir string

	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewEmbeddingService creates a new MiniLM embedding service.
// No model is loaded until the first Embed or Ping call.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = defaultModelDir()
	}
	return &EmbeddingService{
		model:    cfg.Model,
		modelDir: cfg.ModelDir,
	}
}

func defaultModelDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "models")
	}
	return filepath.Join(home, ".resume-ats", "models")
}

// modelPath returns where hugot stores the model inside modelDir.
func (s *EmbeddingService) modelPath() string {
	return filepath.Join(s.modelDir, strings.ReplaceAll(s.model, "/", "_"))
}

// prepareModel downloads the model if it is not cached yet.
func (s *EmbeddingService) prepareModel() (string, error) {
	path := s.modelPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(s.modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}
	logger.Info("minilm: downloading %s to %s", s.model, s.modelDir)

	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = onnxFile
	downloaded, err := hugot.DownloadModel(s.model, s.modelDir, opts)
	if err != nil {
		return "", fmt.Errorf("download model: %w", err)
	}
	return downloaded, nil
}

// load initialises the session and pipeline. Callers hold s.mu.
func (s *EmbeddingService) load() error {
	if s.pipeline != nil {
		return nil
	}

	path, err := s.prepareModel()
	if err != nil {
		return fmt.Errorf("minilm: %w", err)
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return fmt.Errorf("minilm: create session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: path,
		Name:      pipelineName,
	})
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return fmt.Errorf("minilm: create pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return fmt.Errorf("minilm: create pipeline: %w", err)
	}

	s.session = session
	s.pipeline = pipeline
	return nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch runs the pipeline once over all texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("minilm: text %d: %w", i, domain.ErrEmptyText)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return nil, err
	}

	result, err := s.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("minilm: run pipeline: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("minilm: expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}
	return result.Embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return DefaultDimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping loads the model, downloading it if needed.
func (s *EmbeddingService) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Close destroys the hugot session.
func (s *EmbeddingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}
	err := s.session.Destroy()
	s.session = nil
	s.pipeline = nil
	return err
}
