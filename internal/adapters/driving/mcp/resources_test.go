package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatusResource(t *testing.T) {
	mockRAG := &mockRAGService{status: domain.Status{
		Status:         domain.StatusRunning,
		DocumentsCount: 3,
		IndexBackend:   "memory",
	}}
	server, err := NewServer(&Ports{RAG: mockRAG})
	require.NoError(t, err)

	req := makeReadResourceRequest("docqa://status")
	result, err := server.handleStatusResource(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"documents_count": 3`)
	assert.Contains(t, result.Contents[0].Text, `"index_backend": "memory"`)
}

func TestServer_handleSettingsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil settings service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{RAG: &mockRAGService{}})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, makeReadResourceRequest("docqa://settings"))

		require.Error(t, err)
	})

	t.Run("returns settings without api keys", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Retrieval.TopK = 5
		settings.LLM.Provider = domain.AIProviderOpenAI
		settings.LLM.APIKey = "sk-secret-key-value"

		server, err := NewServer(&Ports{
			RAG:      &mockRAGService{},
			Settings: &mockSettingsService{settings: &settings},
		})
		require.NoError(t, err)

		result, err := server.handleSettingsResource(ctx, makeReadResourceRequest("docqa://settings"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"top_k": 5`)
		assert.Contains(t, text, `"chunk_size": 1000`)
		assert.NotContains(t, text, "sk-secret")
	})

	t.Run("returns error on settings failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			RAG:      &mockRAGService{},
			Settings: &mockSettingsService{err: errors.New("config unreadable")},
		})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, makeReadResourceRequest("docqa://settings"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting settings")
	})
}
