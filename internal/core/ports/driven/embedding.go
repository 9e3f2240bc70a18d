package driven

import "context"

// EmbeddingService maps text to fixed-length vectors. Vectors from one
// service are comparable by cosine similarity; the VectorIndex pins the
// length of the first vector it stores, so switching models requires a reset.
//
// Adapters wrap transport and API failures; the pipeline treats any error
// as the provider being unavailable.
type EmbeddingService interface {
	// Embed returns the vector for a single text, such as a question.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns exactly one vector per text, in input order.
	// Ingestion embeds each file with a single call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector length, or 0 when the model is unknown
	// until the first response.
	Dimensions() int

	// ModelName is reported by status.
	ModelName() string

	// Ping makes a lightweight request to check reachability.
	Ping(ctx context.Context) error

	Close() error
}
