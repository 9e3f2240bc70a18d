package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Normaliser extracts plain text from one document format.
type Normaliser interface {
	// SupportedFormats returns the extension tags handled (e.g. "pdf").
	SupportedFormats() []string

	// Normalise extracts the text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled by the pipeline.
type NormaliseResult struct {
	// Text is the full extracted text.
	Text string

	// Title is a human-readable title, if the format carries one.
	Title string

	// Metadata holds format-specific details (page count, encoding).
	Metadata map[string]string
}
