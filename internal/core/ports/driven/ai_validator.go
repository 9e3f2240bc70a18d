package driven

import "github.com/custodia-labs/docqa/internal/core/domain"

// AIConfigValidator checks provider settings before they are saved, so the
// settings commands can report an unreachable Ollama or a rejected API key.
// Settings that name no provider are valid.
type AIConfigValidator interface {
	ValidateEmbedding(config *domain.EmbeddingSettings) error
	ValidateLLM(config *domain.LLMSettings) error
}
