package mcp

import (
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// RAG ingests documents and answers questions.
	RAG driving.RAGService

	// Settings exposes the current configuration. Optional.
	Settings driving.SettingsService

	// Formats limits directory walks of the ingest tool to these extensions.
	// Empty walks every file.
	Formats []string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
