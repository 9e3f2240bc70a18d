package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

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
	resets    int
}

func (m *mockRAGService) IngestDocuments(
	_ context.Context,
	files []domain.FileInput,
	opts domain.IngestOptions,
) (*domain.IngestSummary, error) {
	m.ingested = append(m.ingested, files...)
	if m.err != nil {
		return m.summary, m.err
	}
	if m.summary != nil {
		return m.summary, nil
	}

	summary := &domain.IngestSummary{BatchID: "batch-1"}
	for i, f := range files {
		result := domain.FileResult{Filename: f.Filename, ChunkCount: 2, ByteSize: len(f.Content)}
		summary.Files = append(summary.Files, result)
		summary.TotalChunksAdded += result.ChunkCount
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(files), result)
		}
	}
	m.count += summary.TotalChunksAdded
	summary.TotalDocumentsInStore = m.count
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
	return &domain.Answer{Question: question, AnswerText: "no idea"}, nil
}

func (m *mockRAGService) DocumentCount() int {
	return m.count
}

func (m *mockRAGService) Status(_ context.Context) domain.Status {
	return m.status
}

func (m *mockRAGService) Reset(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.resets++
	m.count = 0
	return nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    *domain.AppSettings
	err         error
	validateErr error

	set      map[string]string
	provider domain.AIProvider
	model    string
	apiKey   string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		m.settings = &s
	}
	return m.settings, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }
func (m *mockSettingsService) Keys() []string                   { return []string{"chunking.size", "retrieval.top_k"} }
func (m *mockSettingsService) Validate() error                  { return m.validateErr }
func (m *mockSettingsService) ValidateEmbeddingConfig() error   { return m.validateErr }
func (m *mockSettingsService) ValidateLLMConfig() error         { return m.validateErr }

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// setupTestServices installs mocks and restores global state after the test.
func setupTestServices(t *testing.T, rag *mockRAGService, settings *mockSettingsService) {
	t.Helper()

	services := &Services{Formats: []string{"txt", "md"}}
	if rag != nil {
		services.RAG = rag
	}
	if settings != nil {
		services.Settings = settings
	}
	SetServices(services)

	t.Cleanup(func() {
		SetServices(nil)
		resetFlags()
	})
}

// resetFlags restores command flag variables between tests.
func resetFlags() {
	askJSON, askSources = false, false
	ingestInclude, ingestExclude, ingestJSON = nil, nil, false
	statusJSON = false
	resetYes = false
	serveAddr = ""
	versionVerbose = false
	timeout = 0
}

// executeCommand runs the root command with args and returns its combined output.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
