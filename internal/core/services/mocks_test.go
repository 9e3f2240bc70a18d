package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// keywords are the axes of the mock embedding space.
var keywords = []string{"cat", "dog", "fish", "car"}

// mockEmbeddingService embeds text as keyword counts and records calls.
type mockEmbeddingService struct {
	mu         sync.Mutex
	embedErr   error
	wrongCount bool
	dims       int
	embeds     []string
	batches    [][]string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	dims := m.dims
	if dims == 0 {
		dims = len(keywords)
	}
	vec := make([]float32, dims)
	lower := strings.ToLower(text)
	for i, kw := range keywords {
		if i < dims {
			vec[i] = float32(strings.Count(lower, kw))
		}
	}
	return vec
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embeds = append(m.embeds, text)
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vector(text)
	}
	if m.wrongCount {
		return result[:len(result)-1], nil
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return len(keywords) }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) calls() (embeds, batches int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.embeds), len(m.batches)
}

// mockLLMService returns a canned reply and records prompts.
type mockLLMService struct {
	mu       sync.Mutex
	reply    string
	genErr   error
	prompts  []string
	lastOpts driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	m.lastOpts = opts
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// failingIndex wraps a real index and fails the chosen operations.
type failingIndex struct {
	driven.VectorIndex
	addErr    error
	searchErr error
}

func (f *failingIndex) Add(ctx context.Context, entries []domain.IndexEntry) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.VectorIndex.Add(ctx, entries)
}

func (f *failingIndex) Search(ctx context.Context, query []float32, topK int) ([]domain.SearchHit, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.VectorIndex.Search(ctx, query, topK)
}
