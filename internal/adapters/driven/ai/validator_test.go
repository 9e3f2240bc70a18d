package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

func TestNewConfigValidator(t *testing.T) {
	var validator driven.AIConfigValidator = NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_NotConfigured(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(nil))
	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Model: "test-model"}))
	assert.NoError(t, validator.ValidateLLM(nil))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderAnthropic}))
}

func TestConfigValidator_PingsProvider(t *testing.T) {
	validator := NewConfigValidator()
	live := ollamaServer(t)
	dead := deadURL(t)

	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: live}))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: live}))
	assert.Error(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: dead}))
	assert.Error(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: dead}))
}

func TestConfigValidator_AnthropicEmbedding(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"})

	assert.ErrorContains(t, err, "does not support embeddings")
}
