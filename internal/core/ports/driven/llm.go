package driven

import "context"

// LLMService turns the grounded prompt into an answer.
type LLMService interface {
	// Generate returns the completion for prompt. A failure leaves the
	// pipeline answering with its generic failure message.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName is reported by status.
	ModelName() string

	// Ping makes a lightweight request to check reachability.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes a single generation. Zero values leave the
// provider default in place.
type GenerateOptions struct {
	// MaxTokens caps the answer length.
	MaxTokens int

	// Temperature is the sampling temperature; 0 is the provider default.
	Temperature float64

	// StopWords end generation when produced.
	StopWords []string
}
