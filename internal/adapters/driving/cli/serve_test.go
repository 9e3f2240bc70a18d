package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestResolveServeAddr(t *testing.T) {
	custom := domain.DefaultAppSettings()
	custom.Server.Addr = "127.0.0.1:9000"

	tests := []struct {
		name     string
		flag     string
		settings *mockSettingsService
		want     string
	}{
		{name: "flag wins", flag: ":7000", settings: &mockSettingsService{settings: &custom}, want: ":7000"},
		{name: "from settings", settings: &mockSettingsService{settings: &custom}, want: "127.0.0.1:9000"},
		{name: "settings error", settings: &mockSettingsService{err: errors.New("boom")}, want: domain.DefaultServerAddr},
		{name: "no settings service", want: domain.DefaultServerAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestServices(t, &mockRAGService{}, tt.settings)
			serveAddr = tt.flag

			assert.Equal(t, tt.want, resolveServeAddr())
		})
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8000", ":8000"},
		{"127.0.0.1:9000", ":9000"},
		{"[::1]:8080", ":8080"},
		{"8000", ":8000"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, displayAddr(tt.addr))
		})
	}
}

func TestServeCmd_NoRAGService(t *testing.T) {
	setupTestServices(t, nil, nil)

	_, err := executeCommand(t, nil, "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rag service not configured")
}
