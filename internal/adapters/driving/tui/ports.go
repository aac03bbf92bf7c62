// Package tui provides an interactive terminal user interface for the
// résumé analyzer. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/custodia-labs/resume-ats/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Analyzer runs analyses. Required.
	Analyzer driving.AnalyzerService

	// Settings backs the settings view. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(analyzer driving.AnalyzerService, settings driving.SettingsService) *Ports {
	return &Ports{
		Analyzer: analyzer,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	return nil
}
