package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

// DocumentInput names the résumé and the question shared by both tools.
type DocumentInput struct {
	Path     string `json:"path,omitempty" jsonschema:"absolute path to a PDF, .txt or .md résumé on this machine"`
	Content  string `json:"content,omitempty" jsonschema:"plain-text résumé, used when path is empty"`
	Mode     string `json:"mode,omitempty" jsonschema:"full, ats, strengths, improvements, datascience or custom (default full)"`
	Question string `json:"question,omitempty" jsonschema:"custom question; implies mode custom"`
	K        int    `json:"k,omitempty" jsonschema:"number of passages to retrieve (default from settings)"`
}

// AnalyzeOutput is the output schema for the analyze_resume tool.
type AnalyzeOutput struct {
	Answer        string          `json:"answer"`
	Mode          string          `json:"mode"`
	Question      string          `json:"question"`
	PagesAnalyzed int             `json:"pages_analyzed"`
	ChunkCount    int             `json:"chunk_count"`
	Model         string          `json:"model"`
	Passages      []PassageOutput `json:"passages"`
}

// RetrieveOutput is the output schema for the retrieve_chunks tool.
type RetrieveOutput struct {
	Question      string          `json:"question"`
	PagesAnalyzed int             `json:"pages_analyzed"`
	ChunkCount    int             `json:"chunk_count"`
	Passages      []PassageOutput `json:"passages"`
	Count         int             `json:"count"`
}

// PassageOutput represents a single retrieved chunk.
type PassageOutput struct {
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
	Content string  `json:"content"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_resume",
		Description: "Analyze a résumé and return structured feedback: strengths, weaknesses, skill gaps, ATS score and missing keywords",
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_chunks",
		Description: "Return the résumé passages most relevant to a question without calling a language model",
	}, s.handleRetrieve)
}

// handleAnalyze handles the analyze_resume tool invocation.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, AnalyzeOutput, error) {
	req, err := toRequest(input)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	analysis, err := s.ports.Analyzer.Analyze(ctx, req)
	if err != nil {
		return nil, AnalyzeOutput{}, err
	}

	return nil, AnalyzeOutput{
		Answer:        analysis.Answer,
		Mode:          string(analysis.Mode),
		Question:      analysis.Question,
		PagesAnalyzed: analysis.PagesAnalyzed,
		ChunkCount:    analysis.ChunkCount,
		Model:         analysis.Model,
		Passages:      passages(analysis.Context),
	}, nil
}

// handleRetrieve handles the retrieve_chunks tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	req, err := toRequest(input)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	result, err := s.ports.Analyzer.Retrieve(ctx, req)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	out := passages(result.Results)
	return nil, RetrieveOutput{
		Question:      result.Question,
		PagesAnalyzed: result.PagesAnalyzed,
		ChunkCount:    result.ChunkCount,
		Passages:      out,
		Count:         len(out),
	}, nil
}

// toRequest builds an analyzer request from tool input. A path wins over
// inline content.
func toRequest(input DocumentInput) (domain.AnalyzeRequest, error) {
	req := domain.AnalyzeRequest{
		Question: input.Question,
		TopK:     input.K,
	}

	switch {
	case strings.TrimSpace(input.Mode) != "":
		mode, ok := domain.ParseMode(input.Mode)
		if !ok {
			return req, domain.NewPipelineError(domain.ErrConfiguration, domain.StageConfigure, 0,
				&domain.InvalidValueError{Field: "mode", Value: input.Mode})
		}
		req.Mode = mode
	case strings.TrimSpace(input.Question) != "":
		req.Mode = domain.ModeCustom
	}

	switch {
	case input.Path != "":
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return req, fmt.Errorf("%w: read %s: %w", domain.ErrLoad, input.Path, err)
		}
		req.Data = data
		req.Filename = filepath.Base(input.Path)
	case strings.TrimSpace(input.Content) != "":
		req.Data = []byte(input.Content)
		req.Filename = "resume.txt"
	default:
		return req, ErrNoDocument
	}
	return req, nil
}

func passages(results []domain.ScoredChunk) []PassageOutput {
	out := make([]PassageOutput, len(results))
	for i, r := range results {
		out[i] = PassageOutput{
			Page:    r.Chunk.Page,
			Score:   r.Score,
			Content: r.Chunk.Content,
		}
	}
	return out
}
