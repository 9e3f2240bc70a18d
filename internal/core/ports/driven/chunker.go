package driven

// TextSplitter splits extracted text into passages sized for embedding.
type TextSplitter interface {
	// Split returns non-empty, trimmed passages in document order.
	Split(text string) []string
}
