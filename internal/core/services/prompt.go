package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// UnsureAnswer is the phrase the model is told to use when the passages do
// not answer the question.
const UnsureAnswer = "I cannot find clear information in the documents"

// BuildPrompt renders the generation prompt for a question and its
// retrieved passages. Passages are labelled from 1 in retrieval order.
// An empty language falls back to domain.DefaultLanguage.
func BuildPrompt(question string, passages []string, language string) string {
	if strings.TrimSpace(language) == "" {
		language = domain.DefaultLanguage
	}

	labelled := make([]string, len(passages))
	for i, p := range passages {
		labelled[i] = fmt.Sprintf("Document %d: %s", i+1, p)
	}

	var b strings.Builder
	b.WriteString("The following are documents uploaded by the user:\n\n")
	b.WriteString(strings.Join(labelled, "\n\n"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	b.WriteString("Answer the question using the documents above. Follow these rules:\n")
	b.WriteString("1. Base your answer only on the content of the provided documents\n")
	b.WriteString("2. Do not speculate about anything not in the documents\n")
	fmt.Fprintf(&b, "3. Answer in %s in detail and accurately\n", language)
	b.WriteString("4. Mention the parts of the documents that support your answer\n")
	fmt.Fprintf(&b, "5. If you are not certain, say %q\n\n", UnsureAnswer)
	b.WriteString("Answer:")
	return b.String()
}
