package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors/filesystem"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	ingestInclude []string
	ingestExclude []string
	ingestJSON    bool
)

// ingestReport is the --json output.
type ingestReport struct {
	*domain.IngestSummary
	Skipped []filesystem.Skipped `json:"skipped,omitempty"`
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Add documents to the index",
	Long: `Extract, chunk, embed and index documents.

Paths may be files or directories. Directories are walked recursively and
only files with a supported extension are picked up; hidden files are skipped.

Examples:
  docqa ingest report.pdf notes.txt
  docqa ingest ./docs --include "**/*.docx" --exclude "drafts/**"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestInclude, "include", "i", nil, "Only ingest directory entries matching these globs")
	ingestCmd.Flags().StringSliceVarP(&ingestExclude, "exclude", "x", nil, "Skip paths matching these globs")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := requireRAG(); err != nil {
		return err
	}

	loader, err := filesystem.New(
		filesystem.WithInclude(ingestInclude...),
		filesystem.WithExclude(ingestExclude...),
		filesystem.WithFormats(supportedFormats...),
	)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	files, skipped, err := loader.Load(ctx, args)
	if err != nil {
		return fmt.Errorf("failed to load files: %w", err)
	}
	if len(files) == 0 {
		if !ingestJSON {
			printSkipped(cmd, skipped)
		}
		return errors.New("no files to ingest")
	}

	var progress *ingestProgress
	if !ingestJSON {
		progress = newIngestProgress(cmd.ErrOrStderr(), len(files))
	}
	opts := domain.IngestOptions{
		OnProgress: func(_, _ int, result domain.FileResult) {
			progress.step(result.Filename)
		},
	}

	summary, err := ragService.IngestDocuments(ctx, files, opts)
	progress.finish()
	if err != nil {
		// Files before the failure are already indexed.
		if summary != nil {
			reportIngest(cmd, summary, skipped)
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	return reportIngest(cmd, summary, skipped)
}

func reportIngest(cmd *cobra.Command, summary *domain.IngestSummary, skipped []filesystem.Skipped) error {
	if ingestJSON {
		return outputIngestJSON(cmd, summary, skipped)
	}
	outputIngestTable(cmd, summary, skipped)
	return nil
}

func outputIngestJSON(cmd *cobra.Command, summary *domain.IngestSummary, skipped []filesystem.Skipped) error {
	data, err := json.MarshalIndent(ingestReport{IngestSummary: summary, Skipped: skipped}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputIngestTable(cmd *cobra.Command, summary *domain.IngestSummary, skipped []filesystem.Skipped) {
	for _, r := range summary.Files {
		if r.Failed() {
			cmd.Printf("  FAIL %s: %s\n", r.Filename, r.Error)
			continue
		}
		cmd.Printf("  OK   %s (%d chunks)\n", r.Filename, r.ChunkCount)
	}
	printSkipped(cmd, skipped)

	cmd.Println()
	cmd.Printf("Processed %d of %d files, added %d chunks.\n",
		len(summary.Succeeded()), len(summary.Files), summary.TotalChunksAdded)
	cmd.Printf("Documents in index: %d\n", summary.TotalDocumentsInStore)
}

func printSkipped(cmd *cobra.Command, skipped []filesystem.Skipped) {
	for _, s := range skipped {
		cmd.Printf("  SKIP %s: %s\n", s.Path, s.Reason)
	}
}
