package mcp

import (
	"context"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	answer  *domain.Answer
	summary *domain.IngestSummary
	status  domain.Status
	count   int
	err     error

	questions []string
	ingested  []domain.FileInput
}

func (m *mockRAGService) IngestDocuments(
	_ context.Context,
	files []domain.FileInput,
	_ domain.IngestOptions,
) (*domain.IngestSummary, error) {
	m.ingested = append(m.ingested, files...)
	if m.err != nil {
		return nil, m.err
	}
	if m.summary != nil {
		return m.summary, nil
	}
	summary := &domain.IngestSummary{BatchID: "batch"}
	for _, f := range files {
		summary.Files = append(summary.Files, domain.FileResult{Filename: f.Filename, ChunkCount: 1})
	}
	summary.TotalChunksAdded = len(files)
	summary.TotalDocumentsInStore = m.count + len(files)
	return summary, nil
}

func (m *mockRAGService) Ingest(_ context.Context, chunks []string, _ []map[string]string) (int, error) {
	return len(chunks), m.err
}

func (m *mockRAGService) AnswerQuestion(_ context.Context, question string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Question: question}, nil
}

func (m *mockRAGService) DocumentCount() int {
	return m.count
}

func (m *mockRAGService) Status(_ context.Context) domain.Status {
	return m.status
}

func (m *mockRAGService) Reset(_ context.Context) error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }
func (m *mockSettingsService) Set(_, _ string) error            { return m.err }
func (m *mockSettingsService) Keys() []string                   { return nil }
func (m *mockSettingsService) Validate() error                  { return m.err }
func (m *mockSettingsService) ValidateEmbeddingConfig() error   { return m.err }
func (m *mockSettingsService) ValidateLLMConfig() error         { return m.err }

func (m *mockSettingsService) SetEmbeddingProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(_ domain.AIProvider, _, _ string) error {
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
