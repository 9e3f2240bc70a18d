package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docqa resources.
	uriScheme = "docqa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Index size and the models in use",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Chunking, retrieval and answer settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleStatusResource returns the service status.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.RAG.Status(ctx))
}

// settingsInfo is the settings subset exposed to assistants. API keys are never included.
type settingsInfo struct {
	ChunkSize      int     `json:"chunk_size"`
	ChunkOverlap   int     `json:"chunk_overlap"`
	TopK           int     `json:"top_k"`
	Language       string  `json:"language"`
	Temperature    float64 `json:"temperature"`
	EmbeddingModel string  `json:"embedding_model"`
	LLMModel       string  `json:"llm_model"`
	StorageBackend string  `json:"storage_backend"`
}

// handleSettingsResource returns the current settings.
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

	return jsonResource(req.Params.URI, settingsInfo{
		ChunkSize:      settings.Chunking.Size,
		ChunkOverlap:   settings.Chunking.Overlap,
		TopK:           settings.Retrieval.TopK,
		Language:       settings.Answer.Language,
		Temperature:    settings.Answer.Temperature(),
		EmbeddingModel: settings.Embedding.Model,
		LLMModel:       settings.LLM.Model,
		StorageBackend: settings.Storage.Backend.String(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
