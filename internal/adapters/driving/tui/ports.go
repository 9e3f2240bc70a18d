// Package tui provides an interactive terminal user interface for docqa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// RAG answers questions and reports index status.
	RAG driving.RAGService

	// Settings is optional; the status view shows model details when set.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(rag driving.RAGService, settings driving.SettingsService) *Ports {
	return &Ports{
		RAG:      rag,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
