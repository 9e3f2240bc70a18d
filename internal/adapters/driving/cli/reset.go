package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every document from the index",
	Long: `Remove every indexed chunk. Settings are kept.

Run this after changing the embedding model, since vectors from different
models cannot be compared.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if err := requireRAG(); err != nil {
		return err
	}

	count := ragService.DocumentCount()
	if !resetYes {
		cmd.Printf("Remove %d documents from the index? [y/N]: ", count)
		answer := strings.ToLower(readLine(bufio.NewReader(cmd.InOrStdin())))
		if answer != "y" && answer != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := ragService.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset index: %w", err)
	}
	cmd.Printf("Removed %d documents.\n", count)
	return nil
}
