package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/docqa/internal/adapters/driven/ai"
	"github.com/custodia-labs/docqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docqa/internal/adapters/driving/cli"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/core/services"
	"github.com/custodia-labs/docqa/internal/logger"
	"github.com/custodia-labs/docqa/internal/normalisers"
	"github.com/custodia-labs/docqa/internal/postprocessors/chunker"
)

// dataDirName is the index directory under the config directory.
const dataDirName = "data"

// bootstrap wires settings, providers, the index and the pipeline.
func bootstrap(_ context.Context, opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config directory: %w", err)
		}
		configDir = dir
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(store, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	index, err := openIndex(settings.Storage, configDir)
	if err != nil {
		return nil, err
	}

	providers := ai.Init(settings, false)
	registry := normalisers.NewDefaultRegistry()
	splitter := chunker.New(
		chunker.WithChunkSize(settings.Chunking.Size),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)

	rag := services.NewRAGService(
		providers.EmbeddingService,
		providers.LLMService,
		index,
		registry,
		splitter,
		services.WithTopK(settings.Retrieval.TopK),
		services.WithGenerateOptions(driven.GenerateOptions{
			MaxTokens:   settings.Answer.MaxTokens,
			Temperature: settings.Answer.Temperature(),
		}),
		services.WithLanguage(settings.Answer.Language),
		services.WithMessages(settings.Answer.Messages),
		services.WithIndexBackend(settings.Storage.Backend.String()),
	)
	logger.Debug("index %s holds %d passages", settings.Storage.Backend, index.Count())

	return &cli.Services{
		RAG:      rag,
		Settings: settingsService,
		Formats:  registry.SupportedFormats(),
		Close: func() error {
			providers.Close()
			return index.Close()
		},
	}, nil
}

// openIndex opens the configured vector index.
func openIndex(storage domain.StorageSettings, configDir string) (driven.VectorIndex, error) {
	switch storage.Backend {
	case domain.StorageMemory:
		return memory.NewVectorIndex(), nil
	case domain.StorageSQLite, "":
		dataDir := storage.DataDir
		if dataDir == "" {
			dataDir = filepath.Join(configDir, dataDirName)
		}
		index, err := sqlite.NewVectorIndex(dataDir)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %w", domain.ErrVectorIndexUnavailable, dataDir, err)
		}
		return index, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend: %s", domain.ErrVectorIndexUnavailable, storage.Backend)
	}
}
