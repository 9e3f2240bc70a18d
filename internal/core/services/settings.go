package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkSize        = "chunking.size"
	keyChunkOverlap     = "chunking.overlap"
	keyTopK             = "retrieval.top_k"
	keyLanguage         = "answer.language"
	keyMaxTokens        = "answer.max_tokens"
	keyTemperaturePct   = "answer.temperature_pct"
	keyMsgEmptyQuestion = "answer.messages.empty_question"
	keyMsgNoDocuments   = "answer.messages.no_documents"
	keyMsgSearchFailed  = "answer.messages.search_failed"
	keyMsgGenFailed     = "answer.messages.generation_failed"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"
	keyRateRPS          = "rate_limit.requests_per_second"
	keyRateBurst        = "rate_limit.burst"
	keyServerAddr       = "server.addr"
)

// DefaultOllamaURL is the base URL assumed for a local Ollama.
const DefaultOllamaURL = "http://localhost:11434"

// maxTemperaturePct bounds answer.temperature_pct (2.0).
const maxTemperaturePct = 200

var settingKeys = []string{
	keyChunkSize, keyChunkOverlap,
	keyTopK,
	keyLanguage, keyMaxTokens, keyTemperaturePct,
	keyMsgEmptyQuestion, keyMsgNoDocuments, keyMsgSearchFailed, keyMsgGenFailed,
	keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
	keyLLMProvider, keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
	keyStorageBackend, keyStorageDataDir,
	keyRateRPS, keyRateBurst,
	keyServerAddr,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Absent keys take their defaults; a present zero is kept, so chunking.overlap = 0 disables overlap.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Answer: domain.AnswerSettings{
			Language:       s.getString(keyLanguage, defaults.Answer.Language),
			MaxTokens:      s.getInt(keyMaxTokens, defaults.Answer.MaxTokens),
			TemperaturePct: s.getInt(keyTemperaturePct, defaults.Answer.TemperaturePct),
			Messages: domain.AnswerMessages{
				EmptyQuestion:    s.configStore.GetString(keyMsgEmptyQuestion),
				NoDocuments:      s.configStore.GetString(keyMsgNoDocuments),
				SearchFailed:     s.configStore.GetString(keyMsgSearchFailed),
				GenerationFailed: s.configStore.GetString(keyMsgGenFailed),
			}.WithDefaults(),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerSecond: s.configStore.GetFloat(keyRateRPS),
			Burst:             s.getInt(keyRateBurst, defaults.RateLimit.Burst),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	// Models default per provider, not globally.
	settings.Embedding.Model = s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[settings.Embedding.Provider])
	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])
	settings.Embedding.APIKey = s.getAPIKey(keyEmbedAPIKey, settings.Embedding.Provider)
	settings.LLM.APIKey = s.getAPIKey(keyLLMAPIKey, settings.LLM.Provider)

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyChunkSize, settings.Chunking.Size},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyTopK, settings.Retrieval.TopK},
		{keyLanguage, settings.Answer.Language},
		{keyMaxTokens, settings.Answer.MaxTokens},
		{keyTemperaturePct, settings.Answer.TemperaturePct},
		{keyMsgEmptyQuestion, settings.Answer.Messages.EmptyQuestion},
		{keyMsgNoDocuments, settings.Answer.Messages.NoDocuments},
		{keyMsgSearchFailed, settings.Answer.Messages.SearchFailed},
		{keyMsgGenFailed, settings.Answer.Messages.GenerationFailed},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyStorageDataDir, settings.Storage.DataDir},
		{keyRateRPS, settings.RateLimit.RequestsPerSecond},
		{keyRateBurst, settings.RateLimit.Burst},
		{keyServerAddr, settings.Server.Addr},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keys that came from the environment are not written to disk.
	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	return slices.Clone(settingKeys)
}

// Set updates one setting by its dotted key.
// The value is parsed according to the key's type and checked against the
// rest of the current settings before it is stored.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	var stored any

	switch key {
	case keyChunkSize, keyChunkOverlap:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if key == keyChunkSize {
			settings.Chunking.Size = n
		} else {
			settings.Chunking.Overlap = n
		}
		if err := settings.Chunking.Validate(); err != nil {
			return err
		}
		stored = n
	case keyTopK:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %d", domain.ErrInvalidInput, key, n)
		}
		stored = n
	case keyMaxTokens:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", domain.ErrInvalidInput, key, n)
		}
		stored = n
	case keyTemperaturePct:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if n < 0 || n > maxTemperaturePct {
			return fmt.Errorf("%w: %s must be in [0, %d], got %d", domain.ErrInvalidInput, key, maxTemperaturePct, n)
		}
		stored = n
	case keyRateBurst:
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		if n < 1 {
			return fmt.Errorf("%w: %s must be at least 1, got %d", domain.ErrInvalidInput, key, n)
		}
		stored = n
	case keyRateRPS:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
		}
		if f < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %g", domain.ErrInvalidInput, key, f)
		}
		stored = f
	case keyEmbedProvider:
		p := domain.AIProvider(strings.ToLower(value))
		if !slices.Contains(domain.AllEmbeddingProviders(), p) {
			return fmt.Errorf("%w: provider %q does not support embeddings", domain.ErrInvalidInput, value)
		}
		stored = p.String()
	case keyLLMProvider:
		p := domain.AIProvider(strings.ToLower(value))
		if !slices.Contains(domain.AllLLMProviders(), p) {
			return fmt.Errorf("%w: invalid LLM provider %q", domain.ErrInvalidInput, value)
		}
		stored = p.String()
	case keyStorageBackend:
		b := domain.StorageBackend(strings.ToLower(value))
		if !b.IsValid() {
			return fmt.Errorf("%w: invalid storage backend %q", domain.ErrInvalidInput, value)
		}
		stored = b.String()
	case keyLanguage, keyServerAddr:
		if value == "" {
			return fmt.Errorf("%w: %s must not be empty", domain.ErrInvalidInput, key)
		}
		stored = value
	case keyMsgEmptyQuestion, keyMsgNoDocuments, keyMsgSearchFailed, keyMsgGenFailed,
		keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyLLMModel, keyLLMBaseURL, keyLLMAPIKey,
		keyStorageDataDir:
		stored = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if apiKey == "" {
		apiKey = s.envKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the current settings are usable for ingestion and answering.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Chunking.Validate(); err != nil {
		return err
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval.top_k must be positive, got %d", domain.ErrInvalidInput, settings.Retrieval.TopK)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: invalid storage backend %q", domain.ErrInvalidInput, settings.Storage.Backend)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured (missing API key?)", settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured (missing API key?)", settings.LLM.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getAPIKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return s.envKey(provider)
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	name := provider.APIKeyEnv()
	if name == "" || s.getenv == nil {
		return ""
	}
	return s.getenv(name)
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
	}
	return n, nil
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a custom URL for local providers and clears it for cloud ones.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return DefaultOllamaURL
	}
	return current
}
