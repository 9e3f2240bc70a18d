// Package chunker splits extracted text into overlapping passages that
// prefer sentence and paragraph boundaries over hard cuts.
package chunker

import (
	"strings"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Ensure Chunker implements the interface.
var _ driven.TextSplitter = (*Chunker)(nil)

// Chunker splits text with a fixed size and overlap.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split returns the passages of text.
func (c *Chunker) Split(text string) []string {
	return Chunk(text, c.chunkSize, c.overlap)
}

// Chunk splits text into trimmed, non-empty passages of at most chunkSize
// characters, repeating overlap characters across each cut.
//
// Lengths count characters, not bytes. A window that does not reach the end
// of the text is shortened to end just after its last '.' or '\n', when one
// lies after the window start. Out-of-range arguments are normalised the
// same way New does.
func Chunk(text string, chunkSize, overlap int) []string {
	if text == "" {
		return nil
	}

	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	runes := []rune(text)
	if len(runes) < chunkSize {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}

	var chunks []string
	for _, s := range spans(runes, chunkSize, overlap) {
		if trimmed := strings.TrimSpace(string(runes[s.start:s.end])); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}

// span is a half-open rune range [start, end).
type span struct {
	start, end int
}

// spans computes the untrimmed windows of the sliding chunker.
// Every window ends after it starts and every start is greater than the
// previous one, so the loop terminates for any input.
func spans(runes []rune, chunkSize, overlap int) []span {
	n := len(runes)
	out := make([]span, 0, n/(chunkSize-overlap)+1)

	start := 0
	for start < n {
		end := min(start+chunkSize, n)

		if end < n {
			if cut := lastBoundary(runes, start, end); cut > start {
				end = cut + 1
			}
		}
		if end <= start {
			end = start + 1
		}

		out = append(out, span{start: start, end: end})

		if end >= n {
			break
		}

		// A cut close to the window start would pull the cursor back onto
		// itself; skip the overlap in that case.
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return out
}

// lastBoundary returns the index of the last '.' or '\n' in runes[start:end],
// or -1 if there is none.
func lastBoundary(runes []rune, start, end int) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == '.' || runes[i] == '\n' {
			return i
		}
	}
	return -1
}
