package driving

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// RAGService ingests documents and answers questions about them.
type RAGService interface {
	// IngestDocuments extracts, chunks, embeds and indexes uploaded files.
	// Per-file failures are reported in the summary; only index structural
	// errors abort the batch.
	IngestDocuments(ctx context.Context, files []domain.FileInput, opts domain.IngestOptions) (*domain.IngestSummary, error)

	// Ingest embeds and indexes already-chunked text.
	// metadata may be nil or hold one map per chunk.
	Ingest(ctx context.Context, chunks []string, metadata []map[string]string) (int, error)

	// AnswerQuestion answers a question from the indexed documents.
	// Provider failures degrade to a fallback answer rather than an error.
	AnswerQuestion(ctx context.Context, question string) (*domain.Answer, error)

	// DocumentCount returns the number of indexed chunks.
	DocumentCount() int

	// Status describes the running service.
	Status(ctx context.Context) domain.Status

	// Reset removes every indexed chunk.
	Reset(ctx context.Context) error
}
