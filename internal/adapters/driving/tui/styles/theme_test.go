package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Background))
	assert.NotEmpty(t, string(theme.Error))
}

func TestDefaultTheme_AccentsAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	accents := []lipgloss.Color{
		theme.Primary,
		theme.Secondary,
		theme.Success,
		theme.Warning,
		theme.Error,
	}

	seen := make(map[string]bool)
	for _, c := range accents {
		assert.False(t, seen[string(c)], "duplicate accent: %s", c)
		seen[string(c)] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestNewStyles_KeepsTheme(t *testing.T) {
	theme := DefaultTheme()

	assert.Same(t, theme, NewStyles(theme).Theme())
}

func TestStyles_TranscriptStylesInitialised(t *testing.T) {
	styles := DefaultStyles()

	assert.NotEqual(t, lipgloss.Style{}, styles.Question)
	assert.NotEqual(t, lipgloss.Style{}, styles.Answer)
	assert.NotEqual(t, lipgloss.Style{}, styles.Source)
	assert.NotEqual(t, lipgloss.Style{}, styles.Snippet)
	assert.NotEqual(t, lipgloss.Style{}, styles.StatusBar)
}

func TestStyles_IndentedStylesKeepText(t *testing.T) {
	styles := DefaultStyles()

	assert.Contains(t, styles.Answer.Render("the answer"), "the answer")
	assert.Contains(t, styles.Snippet.Render("passage"), "passage")
}
