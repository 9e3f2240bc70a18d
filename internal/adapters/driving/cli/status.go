package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index and provider status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := requireRAG(); err != nil {
		return err
	}

	status := ragService.Status(cmd.Context())

	if statusJSON {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Status:          %s\n", status.Status)
	cmd.Printf("Documents:       %d\n", status.DocumentsCount)
	cmd.Printf("Index backend:   %s\n", status.IndexBackend)
	cmd.Printf("Embedding model: %s\n", orNone(status.EmbeddingModel))
	cmd.Printf("LLM model:       %s\n", orNone(status.LLMModel))
	if status.Dimensions > 0 {
		cmd.Printf("Dimensions:      %d\n", status.Dimensions)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(not configured)"
	}
	return s
}
