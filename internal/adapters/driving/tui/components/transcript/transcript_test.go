package transcript

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func answerWithSources() *domain.Answer {
	return &domain.Answer{
		Question:   "What is the refund window?",
		AnswerText: "Refunds are accepted within 30 days.",
		SourceChunks: []domain.SearchHit{
			{
				ID:         "policy.pdf_0",
				Text:       "Customers may request a refund\nwithin 30 days of purchase.",
				Metadata:   map[string]string{domain.MetadataFilename: "policy.pdf", domain.MetadataChunk: "0"},
				Similarity: 0.8123,
			},
		},
	}
}

func TestNew_Empty(t *testing.T) {
	tr := New(nil)

	require.NotNil(t, tr)
	assert.Empty(t, tr.Entries())
	assert.True(t, tr.ShowSources())
	assert.Contains(t, tr.Content(), "No questions yet")
	assert.Nil(t, tr.Init())
}

func TestTranscript_AppendRendersAnswerAndSources(t *testing.T) {
	tr := New(nil)

	tr.Append(Entry{Question: "What is the refund window?", Answer: answerWithSources()})

	content := tr.Content()
	assert.Contains(t, content, "Q1: What is the refund window?")
	assert.Contains(t, content, "Refunds are accepted within 30 days.")
	assert.Contains(t, content, "[1] policy.pdf #0 (similarity 0.812)")
	assert.Contains(t, content, "request a refund within 30 days")
	require.Len(t, tr.Entries(), 1)
}

func TestTranscript_ToggleSources(t *testing.T) {
	tr := New(nil)
	tr.Append(Entry{Question: "q", Answer: answerWithSources()})

	tr.ToggleSources()

	assert.False(t, tr.ShowSources())
	assert.NotContains(t, tr.Content(), "policy.pdf #0")
	assert.Contains(t, tr.Content(), "Refunds are accepted")

	tr.ToggleSources()
	assert.Contains(t, tr.Content(), "policy.pdf #0")
}

func TestTranscript_ErrorEntry(t *testing.T) {
	tr := New(nil)

	tr.Append(Entry{Question: "q", Err: errors.New("index unavailable")})

	assert.Contains(t, tr.Content(), "Error: index unavailable")
}

func TestTranscript_PendingThenAppend(t *testing.T) {
	tr := New(nil)

	tr.SetPending("still thinking?")
	assert.Equal(t, "still thinking?", tr.Pending())
	assert.Contains(t, tr.Content(), "Q1: still thinking?")

	tr.Append(Entry{Question: "still thinking?", Answer: &domain.Answer{AnswerText: "done"}})
	assert.Equal(t, "", tr.Pending())
	assert.Equal(t, 1, strings.Count(tr.Content(), "Q1:"))
}

func TestTranscript_Clear(t *testing.T) {
	tr := New(nil)
	tr.Append(Entry{Question: "q", Answer: &domain.Answer{AnswerText: "a"}})

	tr.Clear()

	assert.Empty(t, tr.Entries())
	assert.Contains(t, tr.Content(), "No questions yet")
}

func TestTranscript_FollowsNewestEntry(t *testing.T) {
	tr := New(nil)
	tr.SetDimensions(40, 3)

	for i := 0; i < 10; i++ {
		tr.Append(Entry{Question: fmt.Sprintf("question %d", i), Answer: &domain.Answer{AnswerText: "answer"}})
	}

	assert.True(t, tr.AtBottom())
	assert.Contains(t, tr.View(), "answer")

	tr.PageUp()
	assert.False(t, tr.AtBottom())

	tr.PageDown()
	tr.PageDown()
	tr.PageDown()
	tr.PageDown()
	assert.True(t, tr.AtBottom())
}

func TestTranscript_SetDimensions_Minimums(t *testing.T) {
	tr := New(nil)

	tr.SetDimensions(5, 1)

	assert.Equal(t, 20, tr.width)
	assert.Equal(t, 3, tr.height)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\tc", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
	assert.Equal(t, "héé...", snippet("hééllo", 3))
}
