package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// NormaliserRegistry selects the normaliser for a document by its format tag.
type NormaliserRegistry interface {
	// Normalise extracts text with the matching normaliser.
	// Fails with domain.ErrUnsupportedFormat, domain.ErrExtractionFailed or
	// domain.ErrEmptyExtractedText.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedFormats returns all format tags that can be normalised.
	SupportedFormats() []string
}
