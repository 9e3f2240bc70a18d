package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []SourceOutput `json:"sources"`
}

// SourceOutput is one passage the answer was grounded on.
type SourceOutput struct {
	Number     int     `json:"number"`
	Label      string  `json:"label"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
}

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	Paths   []string `json:"paths" jsonschema:"local files or directories to ingest"`
	Include []string `json:"include,omitempty" jsonschema:"glob patterns directory entries must match, e.g. **/*.pdf"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Files          []domain.FileResult  `json:"files"`
	Skipped        []filesystem.Skipped `json:"skipped,omitempty"`
	ChunksAdded    int                  `json:"chunks_added"`
	DocumentsTotal int                  `json:"documents_total"`
}

// StatusInput is the (empty) input schema for the status tool.
type StatusInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from the indexed documents, citing the passages used",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Add local PDF, Word, Markdown, HTML or text files to the index",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "status",
		Description: "Report the number of indexed passages and the models in use",
	}, s.handleStatus)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, domain.ErrEmptyQuery
	}

	answer, err := s.ports.RAG.AnswerQuestion(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:  answer.AnswerText,
		Sources: make([]SourceOutput, len(answer.SourceChunks)),
	}
	for i, hit := range answer.SourceChunks {
		output.Sources[i] = SourceOutput{
			Number:     i + 1,
			Label:      hit.Label(),
			Text:       hit.Text,
			Similarity: hit.Similarity,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if len(input.Paths) == 0 {
		return nil, IngestOutput{}, errors.New("at least one path is required")
	}

	loader, err := filesystem.New(
		filesystem.WithInclude(input.Include...),
		filesystem.WithFormats(s.ports.Formats...),
	)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	files, skipped, err := loader.Load(ctx, input.Paths)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("loading files: %w", err)
	}

	output := IngestOutput{
		Files:   []domain.FileResult{},
		Skipped: skipped,
	}
	if len(files) == 0 {
		output.DocumentsTotal = s.ports.RAG.DocumentCount()
		return nil, output, nil
	}

	summary, err := s.ports.RAG.IngestDocuments(ctx, files, domain.IngestOptions{})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output.Files = summary.Files
	output.ChunksAdded = summary.TotalChunksAdded
	output.DocumentsTotal = summary.TotalDocumentsInStore
	return nil, output, nil
}

// handleStatus handles the status tool invocation.
func (s *Server) handleStatus(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatusInput,
) (*mcp.CallToolResult, domain.Status, error) {
	return nil, s.ports.RAG.Status(ctx), nil
}
