// Package mcp provides an MCP (Model Context Protocol) server adapter for
// resume-ats. It lets AI assistants analyze résumé files on the local machine.
package mcp

import "errors"

// ErrMissingAnalyzer is returned when the analyzer service is not provided.
var ErrMissingAnalyzer = errors.New("mcp: analyzer service is required")

// ErrNoDocument is returned when a tool call names neither a path nor content.
var ErrNoDocument = errors.New("mcp: one of path or content is required")
