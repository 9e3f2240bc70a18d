package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "unknown provider is invalid", provider: AIProvider("gemini"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests API key requirements
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProvider("unknown").RequiresAPIKey())
}

func TestAIProvider_APIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Equal(t, "ANTHROPIC_API_KEY", AIProviderAnthropic.APIKeyEnv())
	assert.Empty(t, AIProviderOllama.APIKeyEnv())
}

// TestAIProvider_Description tests human-readable descriptions
func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageMemory.IsValid())
	assert.True(t, StorageSQLite.IsValid())
	assert.False(t, StorageBackend("chroma").IsValid())
}

func TestChunkingSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ChunkingSettings
		wantErr bool
	}{
		{name: "defaults", cfg: ChunkingSettings{Size: 1000, Overlap: 200}},
		{name: "zero overlap", cfg: ChunkingSettings{Size: 10, Overlap: 0}},
		{name: "zero size", cfg: ChunkingSettings{Size: 0, Overlap: 0}, wantErr: true},
		{name: "negative overlap", cfg: ChunkingSettings{Size: 10, Overlap: -1}, wantErr: true},
		{name: "overlap equal to size", cfg: ChunkingSettings{Size: 10, Overlap: 10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
		})
	}
}

// TestEmbeddingSettings_IsConfigured tests configuration detection
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}.IsConfigured())
	assert.False(t, EmbeddingSettings{}.IsConfigured())
}

// TestLLMSettings_IsConfigured tests configuration detection
func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderAnthropic}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderAnthropic, APIKey: "key"}.IsConfigured())
	assert.False(t, LLMSettings{Provider: "bogus", APIKey: "key"}.IsConfigured())
}

// TestDefaultAppSettings tests default settings creation
func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, 1000, settings.Chunking.Size)
	assert.Equal(t, 200, settings.Chunking.Overlap)
	require.NoError(t, settings.Chunking.Validate())
	assert.Equal(t, 3, settings.Retrieval.TopK)
	assert.Equal(t, "English", settings.Answer.Language)
	assert.Equal(t, DefaultAnswerMessages(), settings.Answer.Messages)

	assert.Equal(t, AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.True(t, settings.Embedding.IsConfigured())
	assert.Equal(t, AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "llama3.2", settings.LLM.Model)

	assert.Equal(t, StorageSQLite, settings.Storage.Backend)
	assert.False(t, settings.RateLimit.Enabled())
	assert.Equal(t, ":8000", settings.Server.Addr)
}

func TestAnswerSettings_Temperature(t *testing.T) {
	assert.InDelta(t, 0.7, AnswerSettings{TemperaturePct: 70}.Temperature(), 1e-9)
	assert.Zero(t, AnswerSettings{}.Temperature())
}

// TestEmbeddingDimensions tests known model dimensions
func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 768, dims["nomic-embed-text"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 3072, dims["text-embedding-3-large"])
}

func TestProviderLists(t *testing.T) {
	assert.NotContains(t, AllEmbeddingProviders(), AIProviderAnthropic)
	assert.Contains(t, AllLLMProviders(), AIProviderAnthropic)
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, DefaultEmbeddingModels()[p], "default embedding model for %s", p)
	}
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, DefaultLLMModels()[p], "default LLM model for %s", p)
	}
}
