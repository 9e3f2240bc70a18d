package ask

import "errors"

// Error definitions for the ask view.
var (
	// ErrNoRAGService indicates that no RAG service was provided.
	ErrNoRAGService = errors.New("rag service is required")
)
