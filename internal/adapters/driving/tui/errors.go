package tui

import "errors"

// ErrMissingAnalyzer is returned when the analyzer service is not provided.
var ErrMissingAnalyzer = errors.New("tui: analyzer service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
