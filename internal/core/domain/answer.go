package domain

// Answer is the result of a single question.
// It is not persisted beyond the request that produced it.
type Answer struct {
	// Question is the question as asked.
	Question string `json:"question"`

	// AnswerText is the generated answer or an explanatory fallback message.
	AnswerText string `json:"answer"`

	// SourceChunks are the passages the answer was conditioned on, most similar first.
	SourceChunks []SearchHit `json:"source_chunks"`
}

// HasSources returns true if the answer was grounded on retrieved passages.
func (a *Answer) HasSources() bool {
	return a != nil && len(a.SourceChunks) > 0
}

// AnswerMessages holds the caller-facing texts used when no answer is generated.
type AnswerMessages struct {
	// EmptyQuestion is returned for a blank question.
	EmptyQuestion string

	// NoDocuments is returned when retrieval finds nothing.
	NoDocuments string

	// SearchFailed is returned when the question could not be embedded.
	SearchFailed string

	// GenerationFailed is returned when the generation provider fails.
	GenerationFailed string
}

// DefaultAnswerMessages returns the English fallback messages.
func DefaultAnswerMessages() AnswerMessages {
	return AnswerMessages{
		EmptyQuestion:    "Please enter a question.",
		NoDocuments:      "No relevant documents were found. Please upload documents first.",
		SearchFailed:     "The documents could not be searched right now. Please try again later.",
		GenerationFailed: "An error occurred while generating the answer. Please try again later.",
	}
}

// WithDefaults fills empty messages from DefaultAnswerMessages.
func (m AnswerMessages) WithDefaults() AnswerMessages {
	d := DefaultAnswerMessages()
	if m.EmptyQuestion == "" {
		m.EmptyQuestion = d.EmptyQuestion
	}
	if m.NoDocuments == "" {
		m.NoDocuments = d.NoDocuments
	}
	if m.SearchFailed == "" {
		m.SearchFailed = d.SearchFailed
	}
	if m.GenerationFailed == "" {
		m.GenerationFailed = d.GenerationFailed
	}
	return m
}
