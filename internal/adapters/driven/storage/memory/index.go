package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// Entries live for the lifetime of the process and are searched by brute force.
type VectorIndex struct {
	mu      sync.RWMutex
	entries []domain.IndexEntry
	vectors [][]float32
	ids     map[string]struct{}
	dim     int
}

// NewVectorIndex creates an empty in-memory vector index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		ids: make(map[string]struct{}),
	}
}

// Add validates the whole batch, then appends it.
func (x *VectorIndex) Add(ctx context.Context, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	dim, err := vector.ValidateBatch(entries, x.dim, func(id string) bool {
		_, ok := x.ids[id]
		return ok
	})
	if err != nil {
		return err
	}

	for _, e := range entries {
		stored := domain.IndexEntry{
			ID:       e.ID,
			Vector:   append([]float32(nil), e.Vector...),
			Text:     e.Text,
			Metadata: maps.Clone(e.Metadata),
		}
		x.entries = append(x.entries, stored)
		x.vectors = append(x.vectors, stored.Vector)
		x.ids[e.ID] = struct{}{}
	}
	x.dim = dim
	return nil
}

// Search returns the topK entries most similar to query. A query whose
// length differs from the stored vectors matches nothing.
func (x *VectorIndex) Search(ctx context.Context, query []float32, topK int) ([]domain.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.entries) > 0 && len(query) != x.dim {
		logger.Warn("memory index search skipped: query has %d dimensions, index has %d", len(query), x.dim)
		return []domain.SearchHit{}, nil
	}

	ranked := vector.TopK(query, x.vectors, topK)
	hits := make([]domain.SearchHit, 0, len(ranked))
	for _, r := range ranked {
		e := x.entries[r.Index]
		hits = append(hits, domain.SearchHit{
			ID:         e.ID,
			Text:       e.Text,
			Metadata:   maps.Clone(e.Metadata),
			Similarity: r.Score,
		})
	}
	return hits, nil
}

// Count returns the number of stored entries.
func (x *VectorIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Dimensions returns the vector length, or 0 while empty.
func (x *VectorIndex) Dimensions() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dim
}

// Reset removes every entry.
func (x *VectorIndex) Reset(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = nil
	x.vectors = nil
	x.ids = make(map[string]struct{})
	x.dim = 0
	return nil
}

// Close is a no-op.
func (x *VectorIndex) Close() error {
	return nil
}
