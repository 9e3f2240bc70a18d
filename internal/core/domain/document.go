package domain

// DefaultChunkSource is the provenance recorded on chunks ingested without metadata.
const DefaultChunkSource = "uploaded"

// Chunk metadata keys.
const (
	MetadataSource   = "source"
	MetadataFilename = "filename"
	MetadataChunk    = "chunk"
	MetadataTitle    = "title"
)

// DefaultChunkMetadata returns the metadata attached to chunks that were
// ingested without any.
func DefaultChunkMetadata() map[string]string {
	return map[string]string{MetadataSource: DefaultChunkSource}
}

// IndexEntry is the tuple persisted by a vector index.
// Entries are never mutated in place.
type IndexEntry struct {
	// ID is the chunk identifier.
	ID string

	// Vector is the chunk embedding.
	Vector []float32

	// Text is the chunk content.
	Text string

	// Metadata is copied from the chunk.
	Metadata map[string]string
}

// SearchHit is a single similarity search result.
type SearchHit struct {
	// ID is the matched entry.
	ID string `json:"id"`

	// Text is the matched passage.
	Text string `json:"text"`

	// Metadata is the entry metadata.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Similarity is the cosine similarity to the query vector.
	Similarity float64 `json:"similarity"`
}

// Label names the hit by filename and chunk number, falling back to its id.
func (h SearchHit) Label() string {
	name := h.Metadata[MetadataFilename]
	if name == "" {
		return h.ID
	}
	if chunk := h.Metadata[MetadataChunk]; chunk != "" {
		return name + " #" + chunk
	}
	return name
}

// Texts returns the passage text of each hit in order.
func Texts(hits []SearchHit) []string {
	texts := make([]string, len(hits))
	for i := range hits {
		texts[i] = hits[i].Text
	}
	return texts
}
