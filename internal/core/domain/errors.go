package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Extraction Errors.

	// ErrUnsupportedFormat indicates no normaliser handles the file's format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionFailed indicates a normaliser could not read the file.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyExtractedText indicates extraction succeeded but produced no usable text.
	ErrEmptyExtractedText = errors.New("no text could be extracted")

	// Index Errors.

	// ErrDimensionMismatch indicates a vector length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrDuplicateID indicates an index entry id is already taken.
	ErrDuplicateID = errors.New("duplicate id")

	// Provider Errors.

	// ErrProviderUnavailable indicates an embedding or generation call failed.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index could not be opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRateLimited indicates a provider rejected the request with a rate limit.
	ErrRateLimited = errors.New("rate limited")

	// Query Errors.

	// ErrEmptyQuery indicates a blank question.
	// The pipeline answers it with a prompt to enter a question; adapters that
	// must reject input (HTTP, MCP) return it.
	ErrEmptyQuery = errors.New("empty query")
)
