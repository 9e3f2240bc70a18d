package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

// RAGService is the retrieval-augmented pipeline. It owns no state besides
// the chunk id sequence; the vector index is the only shared resource.
type RAGService struct {
	embedder    driven.EmbeddingService
	llm         driven.LLMService
	index       driven.VectorIndex
	normalisers driven.NormaliserRegistry
	splitter    driven.TextSplitter

	topK     int
	generate driven.GenerateOptions
	language string
	messages domain.AnswerMessages
	backend  string

	ids *idSequence
}

// RAGOption configures a RAGService.
type RAGOption func(*RAGService)

// WithTopK sets the number of passages retrieved per question.
func WithTopK(k int) RAGOption {
	return func(s *RAGService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithGenerateOptions sets the options passed to the LLM.
func WithGenerateOptions(opts driven.GenerateOptions) RAGOption {
	return func(s *RAGService) {
		s.generate = opts
	}
}

// WithLanguage sets the language answers are requested in.
func WithLanguage(language string) RAGOption {
	return func(s *RAGService) {
		if strings.TrimSpace(language) != "" {
			s.language = language
		}
	}
}

// WithMessages overrides the fallback answers. Empty fields keep their defaults.
func WithMessages(m domain.AnswerMessages) RAGOption {
	return func(s *RAGService) {
		s.messages = m.WithDefaults()
	}
}

// WithClock sets the time source used in chunk ids.
func WithClock(now func() time.Time) RAGOption {
	return func(s *RAGService) {
		if now != nil {
			s.ids.now = now
		}
	}
}

// WithIndexBackend names the index backend reported by Status.
func WithIndexBackend(name string) RAGOption {
	return func(s *RAGService) {
		s.backend = name
	}
}

// NewRAGService creates the pipeline.
// embedder and llm may be nil when not configured; the affected operations
// then degrade the same way a failing provider does.
func NewRAGService(
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	index driven.VectorIndex,
	normalisers driven.NormaliserRegistry,
	splitter driven.TextSplitter,
	opts ...RAGOption,
) *RAGService {
	s := &RAGService{
		embedder:    embedder,
		llm:         llm,
		index:       index,
		normalisers: normalisers,
		splitter:    splitter,
		topK:        domain.DefaultTopK,
		language:    domain.DefaultLanguage,
		messages:    domain.DefaultAnswerMessages(),
		ids:         &idSequence{now: time.Now},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest embeds chunks with a single batched call and adds them to the index.
// A nil metadata slice, or a nil element, gets the default metadata.
func (s *RAGService) Ingest(ctx context.Context, chunks []string, metadata []map[string]string) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if metadata != nil && len(metadata) != len(chunks) {
		return 0, fmt.Errorf("%w: %d metadata maps for %d chunks", domain.ErrInvalidInput, len(metadata), len(chunks))
	}
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			return 0, fmt.Errorf("%w: chunk %d is blank", domain.ErrInvalidInput, i)
		}
	}
	if s.embedder == nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, domain.ErrEmbeddingUnavailable)
	}

	ids := s.ids.assign(chunks, s.index.Count)

	done := logger.Timed(fmt.Sprintf("embedding %d chunks", len(chunks)))
	vectors, err := s.embedder.EmbedBatch(ctx, chunks)
	done()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, fmt.Errorf("%w: embedding %d chunks: %w", domain.ErrProviderUnavailable, len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrProviderUnavailable, len(vectors), len(chunks))
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i := range chunks {
		md := domain.DefaultChunkMetadata()
		if metadata != nil && metadata[i] != nil {
			md = metadata[i]
		}
		entries[i] = domain.IndexEntry{
			ID:       ids[i],
			Vector:   vectors[i],
			Text:     chunks[i],
			Metadata: md,
		}
	}

	if err := s.index.Add(ctx, entries); err != nil {
		return 0, fmt.Errorf("adding to index: %w", err)
	}

	logger.Debug("Indexed %d chunks (index now holds %d)", len(entries), s.index.Count())
	return len(entries), nil
}

// IngestDocuments extracts, chunks and indexes each file in turn.
// Failures of a single file are recorded in its result and the batch goes on.
// Index structural errors and cancellation stop the batch; the partial
// summary is returned with the error.
func (s *RAGService) IngestDocuments(
	ctx context.Context, files []domain.FileInput, opts domain.IngestOptions,
) (*domain.IngestSummary, error) {
	summary := &domain.IngestSummary{
		BatchID: uuid.NewString(),
		Files:   make([]domain.FileResult, 0, len(files)),
	}

	logger.Section("Ingest")
	logger.Debug("Batch %s: %d files", summary.BatchID, len(files))

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			summary.TotalDocumentsInStore = s.index.Count()
			return summary, err
		}

		result, err := s.ingestFile(ctx, file)
		summary.Files = append(summary.Files, result)
		summary.TotalChunksAdded += result.ChunkCount

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(files), result)
		}

		if err != nil {
			if isFatalIngestError(ctx, err) {
				logger.Error("Batch %s aborted at %s: %v", summary.BatchID, file.Filename, err)
				summary.TotalDocumentsInStore = s.index.Count()
				return summary, err
			}
			logger.Warn("Skipping %s: %v", file.Filename, err)
		}
	}

	summary.TotalDocumentsInStore = s.index.Count()
	logger.Info("Batch %s: %d chunks from %d of %d files",
		summary.BatchID, summary.TotalChunksAdded, len(summary.Succeeded()), len(files))
	return summary, nil
}

// ingestFile runs one file through extraction, chunking and indexing.
func (s *RAGService) ingestFile(ctx context.Context, file domain.FileInput) (domain.FileResult, error) {
	result := domain.FileResult{Filename: file.Filename}

	fail := func(err error) (domain.FileResult, error) {
		result.Error = err.Error()
		return result, err
	}

	raw := domain.NewRawDocument(file.Filename, file.Content)
	normalised, err := s.normalisers.Normalise(ctx, raw)
	if err != nil {
		return fail(err)
	}

	chunks := s.splitter.Split(normalised.Text)
	if len(chunks) == 0 {
		return fail(fmt.Errorf("%w: %s", domain.ErrEmptyExtractedText, file.Filename))
	}
	logger.Debug("%s: %d characters, %d chunks", file.Filename, len([]rune(normalised.Text)), len(chunks))

	metadata := make([]map[string]string, len(chunks))
	for i := range chunks {
		md := domain.DefaultChunkMetadata()
		md[domain.MetadataFilename] = file.Filename
		md[domain.MetadataChunk] = strconv.Itoa(i + 1)
		if normalised.Title != "" {
			md[domain.MetadataTitle] = normalised.Title
		}
		metadata[i] = md
	}

	n, err := s.Ingest(ctx, chunks, metadata)
	if err != nil {
		return fail(err)
	}

	result.ChunkCount = n
	result.ByteSize = len(file.Content)
	return result, nil
}

// isFatalIngestError reports whether err must stop a batch.
func isFatalIngestError(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, domain.ErrDimensionMismatch) ||
		errors.Is(err, domain.ErrDuplicateID)
}

// AnswerQuestion embeds the question, retrieves the closest passages and asks
// the LLM to answer from them. Provider failures produce a fallback answer;
// the error is non-nil only when ctx is done.
func (s *RAGService) AnswerQuestion(ctx context.Context, question string) (*domain.Answer, error) {
	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	answer := &domain.Answer{
		Question:     question,
		SourceChunks: []domain.SearchHit{},
	}

	if strings.TrimSpace(question) == "" {
		answer.AnswerText = s.messages.EmptyQuestion
		return answer, nil
	}

	if s.embedder == nil {
		logger.Warn("No embedding service configured")
		answer.AnswerText = s.messages.SearchFailed
		return answer, nil
	}

	done := logger.Timed("embedding question")
	query, err := s.embedder.Embed(ctx, question)
	done()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Embedding question failed: %v", err)
		answer.AnswerText = s.messages.SearchFailed
		return answer, nil
	}

	hits, err := s.index.Search(ctx, query, s.topK)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Search failed, treating as no results: %v", err)
		hits = nil
	}
	logger.Debug("Retrieved %d passages (top_k=%d)", len(hits), s.topK)

	if len(hits) == 0 {
		answer.AnswerText = s.messages.NoDocuments
		return answer, nil
	}
	answer.SourceChunks = hits

	if s.llm == nil {
		logger.Warn("No LLM service configured")
		answer.AnswerText = s.messages.GenerationFailed
		return answer, nil
	}

	prompt := BuildPrompt(question, domain.Texts(hits), s.language)

	done = logger.Timed("generating answer")
	text, err := s.llm.Generate(ctx, prompt, s.generate)
	done()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Generation failed: %v", err)
		answer.AnswerText = s.messages.GenerationFailed
		return answer, nil
	}

	answer.AnswerText = strings.TrimSpace(text)
	return answer, nil
}

// DocumentCount returns the number of indexed chunks.
func (s *RAGService) DocumentCount() int {
	return s.index.Count()
}

// Status describes the pipeline and its providers.
func (s *RAGService) Status(_ context.Context) domain.Status {
	st := domain.Status{
		Status:         domain.StatusRunning,
		DocumentsCount: s.index.Count(),
		IndexBackend:   s.backend,
		Dimensions:     s.index.Dimensions(),
	}
	if s.embedder != nil {
		st.EmbeddingModel = s.embedder.ModelName()
	}
	if s.llm != nil {
		st.LLMModel = s.llm.ModelName()
	}
	return st
}

// Reset removes every indexed chunk.
func (s *RAGService) Reset(ctx context.Context) error {
	logger.Info("Resetting index (%d chunks)", s.index.Count())
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("resetting index: %w", err)
	}
	return nil
}
