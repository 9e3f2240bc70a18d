package driven

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// VectorIndex stores index entries and answers nearest-neighbour queries
// by cosine similarity. Implementations provide read/write mutual exclusion.
type VectorIndex interface {
	// Add appends entries. The whole batch is rejected with
	// domain.ErrDimensionMismatch or domain.ErrDuplicateID before anything is
	// written. Storage failures are returned, never swallowed.
	Add(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns up to topK hits by descending similarity.
	// topK is clamped to Count. Storage failures are logged and produce an
	// empty result; only context cancellation is returned as an error.
	Search(ctx context.Context, query []float32, topK int) ([]domain.SearchHit, error)

	// Count returns the number of stored entries. It never fails.
	Count() int

	// Dimensions returns the established vector length, or 0 while empty.
	Dimensions() int

	// Reset removes every entry.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
