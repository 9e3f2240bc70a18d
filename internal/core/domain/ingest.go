package domain

// FileInput is one uploaded file handed to ingestion.
type FileInput struct {
	// Filename is used to select the normaliser and for provenance.
	Filename string

	// Content is the raw file bytes.
	Content []byte
}

// FileResult reports the outcome of ingesting one file.
// Error is empty on success.
type FileResult struct {
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunks,omitempty"`
	ByteSize   int    `json:"size,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed returns true if the file could not be ingested.
func (r FileResult) Failed() bool {
	return r.Error != ""
}

// IngestSummary reports the outcome of an ingestion batch.
type IngestSummary struct {
	// BatchID identifies the batch in logs.
	BatchID string `json:"batch_id"`

	// Files holds one result per input file, in input order.
	Files []FileResult `json:"files"`

	// TotalChunksAdded is the number of chunks added by this batch.
	TotalChunksAdded int `json:"total_chunks_added"`

	// TotalDocumentsInStore is the index count after the batch.
	TotalDocumentsInStore int `json:"total_documents_in_store"`
}

// Succeeded returns the results of files that were ingested.
func (s *IngestSummary) Succeeded() []FileResult {
	var out []FileResult
	for _, r := range s.Files {
		if !r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Failures returns the results of files that could not be ingested.
func (s *IngestSummary) Failures() []FileResult {
	var out []FileResult
	for _, r := range s.Files {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// IngestProgress is called after each file of a batch has been processed.
type IngestProgress func(done, total int, result FileResult)

// IngestOptions configures an ingestion batch.
type IngestOptions struct {
	// OnProgress is optional.
	OnProgress IngestProgress
}
