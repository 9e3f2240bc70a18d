package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var (
	askJSON    bool
	askSources bool
)

// snippetLength caps passages printed with --sources.
const snippetLength = 200

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the indexed documents",
	Long: `Answer a question from the indexed documents.

The most similar passages are retrieved and handed to the configured LLM,
which is instructed to answer only from them and to cite their numbers.

Examples:
  docqa ask "What are the payment terms?"
  docqa ask --sources "Who signed the contract?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Output as JSON")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "Print the passages the answer was based on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireRAG(); err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	answer, err := ragService.AnswerQuestion(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}
	outputAskText(cmd, answer, askSources)
	return nil
}

func outputAskJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, answer *domain.Answer, withSources bool) {
	cmd.Println(answer.AnswerText)
	if !withSources || !answer.HasSources() {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, hit := range answer.SourceChunks {
		cmd.Printf("  [%d] %s (similarity %.3f)\n", i+1, hit.Label(), hit.Similarity)
		cmd.Printf("      %s\n", snippet(hit.Text, snippetLength))
	}
}

// snippet flattens whitespace and truncates to n runes.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
