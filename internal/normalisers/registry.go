package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps format tags to normalisers.
// A later registration for the same format replaces the earlier one.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[string]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{
		normalisers: make(map[string]driven.Normaliser),
	}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for every format it supports.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, format := range normaliser.SupportedFormats() {
		r.normalisers[strings.ToLower(format)] = normaliser
	}
}

// SupportedFormats returns the registered format tags in sorted order.
func (r *Registry) SupportedFormats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]string, 0, len(r.normalisers))
	for format := range r.normalisers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Normalise extracts the text of raw with the normaliser for its format.
// Documents without a format tag are classified by filename.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	format := raw.Format
	if format == "" {
		format = domain.FormatOf(raw.Filename)
	}

	r.mu.RLock()
	normaliser, ok := r.normalisers[format]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, "."+format)
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, raw.Filename, err)
	}
	if result == nil || strings.TrimSpace(result.Text) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyExtractedText, raw.Filename)
	}

	return result, nil
}
