package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  GET  /                   endpoint index
  POST /upload-documents/  upload files (multipart field "files")
  POST /ask/               ask a question (form field "question")
  GET  /status/            service status

The listen address defaults to server.addr from the settings.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from settings, :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireRAG(); err != nil {
		return err
	}

	server, err := httpapi.NewServer(ragService)
	if err != nil {
		return err
	}

	addr := resolveServeAddr()
	cmd.Printf("HTTP API listening on http://localhost%s\n", displayAddr(addr))
	return server.Run(cmd.Context(), addr)
}

func resolveServeAddr() string {
	if serveAddr != "" {
		return serveAddr
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Server.Addr != "" {
			return settings.Server.Addr
		}
	}
	return domain.DefaultServerAddr
}

// displayAddr keeps the port of host:port addresses for the banner.
func displayAddr(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ":" + addr
}
