package api

import (
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
	"github.com/custodia-labs/resume-ats/internal/logger"
)

// AnalyzeResponse is the body of a successful /v1/analyze call.
type AnalyzeResponse struct {
	ID            string               `json:"id"`
	Mode          domain.Mode          `json:"mode"`
	ModeLabel     string               `json:"mode_label"`
	Question      string               `json:"question"`
	Answer        string               `json:"answer"`
	AnswerHTML    string               `json:"answer_html"`
	PagesAnalyzed int                  `json:"pages_analyzed"`
	ChunkCount    int                  `json:"chunk_count"`
	Context       []domain.ScoredChunk `json:"context"`
	Model         string               `json:"model"`
	PromptTokens  int                  `json:"prompt_tokens"`
	DurationMS    int64                `json:"duration_ms"`
}

// AnalyzeHandler serves the analyzer over HTTP.
type AnalyzeHandler struct {
	analyzer driving.AnalyzerService
}

// NewAnalyzeHandler creates a handler backed by the analyzer service.
func NewAnalyzeHandler(analyzer driving.AnalyzerService) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer}
}

// HandleHealthy reports liveness.
func (h *AnalyzeHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandlePresets lists the analysis modes.
func (h *AnalyzeHandler) HandlePresets(c *fiber.Ctx) error {
	return c.JSON(h.analyzer.Presets())
}

// HandleAnalyze runs the full pipeline on an uploaded résumé.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	analysis, err := h.analyzer.Analyze(c.UserContext(), req)
	if err != nil {
		return err
	}

	answerHTML, err := renderMarkdown(analysis.Answer)
	if err != nil {
		logger.Warn("render answer: %v", err)
	}

	return c.JSON(AnalyzeResponse{
		ID:            analysis.ID,
		Mode:          analysis.Mode,
		ModeLabel:     analysis.ModeLabel,
		Question:      analysis.Question,
		Answer:        analysis.Answer,
		AnswerHTML:    answerHTML,
		PagesAnalyzed: analysis.PagesAnalyzed,
		ChunkCount:    analysis.ChunkCount,
		Context:       analysis.Context,
		Model:         analysis.Model,
		PromptTokens:  analysis.PromptTokens,
		DurationMS:    analysis.Duration.Milliseconds(),
	})
}

// HandleRetrieve runs the pipeline up to retrieval.
func (h *AnalyzeHandler) HandleRetrieve(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return err
	}

	result, err := h.analyzer.Retrieve(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// parseRequest reads the multipart upload and its form fields.
func (h *AnalyzeHandler) parseRequest(c *fiber.Ctx) (domain.AnalyzeRequest, error) {
	var params AnalyzeParams
	if err := c.BodyParser(&params); err != nil {
		return domain.AnalyzeRequest{}, ErrBadRequest()
	}
	if errs := params.Validate(); len(errs) > 0 {
		return domain.AnalyzeRequest{}, NewValidationError(errs)
	}

	mode := domain.Mode("")
	switch {
	case strings.TrimSpace(params.Mode) != "":
		m, ok := domain.ParseMode(params.Mode)
		if !ok {
			return domain.AnalyzeRequest{}, NewValidationError(map[string]string{"mode": "unknown mode"})
		}
		mode = m
	case strings.TrimSpace(params.Question) != "":
		mode = domain.ModeCustom
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.AnalyzeRequest{}, ErrMissingFile()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.AnalyzeRequest{}, err
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return domain.AnalyzeRequest{}, err
	}

	return domain.AnalyzeRequest{
		Data:     data,
		Filename: fileHeader.Filename,
		Mode:     mode,
		Question: params.Question,
		TopK:     params.TopK,
	}, nil
}
