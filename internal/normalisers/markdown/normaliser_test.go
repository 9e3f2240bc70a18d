package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestNormalise_Success(t *testing.T) {
	content := "# Release Plan\n\nThe **beta** ships in [June](https://example.com/plan).\n\n- Freeze features.\n- Run `make test`.\n"
	raw := domain.NewRawDocument("plan.md", []byte(content))

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Release Plan", result.Title)
	assert.Equal(t, "Release Plan\n\nThe beta ships in June.\n\nFreeze features.\nRun make test.", result.Text)
	assert.Equal(t, "markdown", result.Metadata["format"])
}

func TestNormalise_TitleFallsBackToFilename(t *testing.T) {
	raw := domain.NewRawDocument("setup-guide.md", []byte("## Install\nRun the installer."))

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "setup guide", result.Title)
}

func TestNormalise_NilDocument(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"code block", "before\n```go\nfmt.Println()\n```\nafter", "before\n\nafter"},
		{"image", "see ![diagram](d.png) here", "see  here"},
		{"blockquote", "> quoted line", "quoted line"},
		{"numbered list", "1. first\n2. second", "first\nsecond"},
		{"horizontal rule", "above\n---\nbelow", "above\n\nbelow"},
		{"emphasis", "*a* and __b__", "a and b"},
		{"snake case kept", "use max_tokens here", "use max_tokens here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.input))
		})
	}
}
