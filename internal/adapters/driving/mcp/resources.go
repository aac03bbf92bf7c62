package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/resume-ats/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for resume-ats resources.
	uriScheme = "resume-ats://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "presets",
		Name:        "presets",
		Description: "Analysis modes and their questions",
		MIMEType:    "application/json",
	}, s.handlePresetsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "presets/{mode}",
		Name:        "preset-question",
		Description: "The question asked by a specific mode",
		MIMEType:    "text/plain",
	}, s.handlePresetResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Active providers and pipeline parameters (no secrets)",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handlePresetsResource returns every preset.
func (s *Server) handlePresetsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := marshalJSON(s.ports.Analyzer.Presets())
	if err != nil {
		return nil, fmt.Errorf("marshalling presets: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handlePresetResource returns the question for one mode.
func (s *Server) handlePresetResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractMode(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	mode, ok := domain.ParseMode(name)
	if !ok || mode == domain.ModeCustom {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     mode.Question(),
		}},
	}, nil
}

// settingsInfo is the public view of the settings. API keys are reduced to
// whether one is stored.
type settingsInfo struct {
	LLMProvider       string  `json:"llm_provider"`
	LLMModel          string  `json:"llm_model"`
	Temperature       float64 `json:"temperature"`
	LLMKeyStored      bool    `json:"llm_key_stored"`
	EmbeddingProvider string  `json:"embedding_provider"`
	EmbeddingModel    string  `json:"embedding_model"`
	ChunkSize         int     `json:"chunk_size"`
	ChunkOverlap      int     `json:"chunk_overlap"`
	TopK              int     `json:"top_k"`
	ContextBudget     int     `json:"context_budget"`
	IndexBackend      string  `json:"index_backend"`
}

// handleSettingsResource returns the non-secret settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", err)
	}

	info := settingsInfo{
		LLMProvider:       string(settings.LLM.Provider),
		LLMModel:          settings.LLM.Model,
		Temperature:       settings.LLM.Temperature,
		LLMKeyStored:      settings.LLM.APIKey != "",
		EmbeddingProvider: string(settings.Embedding.Provider),
		EmbeddingModel:    settings.Embedding.Model,
		ChunkSize:         settings.Pipeline.ChunkSize,
		ChunkOverlap:      settings.Pipeline.ChunkOverlap,
		TopK:              settings.Pipeline.TopK,
		ContextBudget:     settings.Pipeline.ContextBudget,
		IndexBackend:      string(settings.Pipeline.IndexBackend),
	}

	data, err := marshalJSON(info)
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// marshalJSON indents v without HTML escaping, so labels such as
// "ATS Score & Keywords" stay readable.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractMode extracts the mode from a URI like resume-ats://presets/{mode}.
func extractMode(uri string) string {
	const prefix = uriScheme + "presets/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
