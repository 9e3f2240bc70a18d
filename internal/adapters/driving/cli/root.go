package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	timeout   time.Duration
)

// Services holds everything the commands drive.
type Services struct {
	RAG      driving.RAGService
	Settings driving.SettingsService

	// Formats lists the file extensions the normalisers accept, without the dot.
	Formats []string

	// Close releases the index and provider connections. Optional.
	Close func() error
}

// Options are the global flag values handed to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// BootstrapFunc builds the services once flags have been parsed.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	ragService       driving.RAGService
	settingsService  driving.SettingsService
	supportedFormats []string
	closeServices    func() error

	bootstrap BootstrapFunc
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa ingests PDF, Word, Markdown, HTML and text documents, indexes them by semantic
embedding and answers natural-language questions from the indexed passages.

Examples:
  docqa ingest ./reports --include "**/*.pdf"
  docqa ask "What was the revenue in 2023?"
  docqa serve`,
	SilenceUsage:       true,
	PersistentPreRunE:  initServices,
	PersistentPostRunE: shutdownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stages to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.docqa)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort ingest and ask after this long (0 = no limit)")
}

// SetBootstrap registers the function that builds services after flag parsing.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		ragService = nil
		settingsService = nil
		supportedFormats = nil
		closeServices = nil
		return
	}
	ragService = s.RAG
	settingsService = s.Settings
	supportedFormats = s.Formats
	closeServices = s.Close
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
// Output goes to stdout; errors and usage stay on stderr.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || ragService != nil {
		return nil
	}
	// version never needs providers or the index.
	if cmd == versionCmd {
		return nil
	}

	services, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(services)
	return nil
}

func shutdownServices(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

// commandContext applies the global --timeout to the command context.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

func requireRAG() error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}
	return nil
}
