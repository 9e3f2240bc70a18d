// Package transcript provides a scrollable question and answer history.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
)

// snippetLength is the number of characters of a source passage shown.
const snippetLength = 160

// Entry is one exchange in the transcript.
type Entry struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// Transcript renders entries into a viewport that follows the newest answer.
type Transcript struct {
	viewport    viewport.Model
	styles      *styles.Styles
	entries     []Entry
	pending     string
	showSources bool
	width       int
	height      int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := &Transcript{
		viewport:    viewport.New(80, 10),
		styles:      s,
		showSources: true,
		width:       80,
		height:      10,
	}
	t.refresh()
	return t
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update forwards scrolling messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// SetPending shows question as awaiting an answer.
func (t *Transcript) SetPending(question string) {
	t.pending = question
	t.refresh()
	t.viewport.GotoBottom()
}

// Pending returns the question awaiting an answer, if any.
func (t *Transcript) Pending() string {
	return t.pending
}

// Append records a finished exchange and clears the pending question.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.pending = ""
	t.refresh()
	t.viewport.GotoBottom()
}

// Entries returns the recorded exchanges, oldest first.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Clear removes every entry.
func (t *Transcript) Clear() {
	t.entries = nil
	t.pending = ""
	t.refresh()
	t.viewport.GotoTop()
}

// ToggleSources shows or hides the source passages under answers.
func (t *Transcript) ToggleSources() {
	t.showSources = !t.showSources
	t.refresh()
}

// ShowSources reports whether source passages are rendered.
func (t *Transcript) ShowSources() bool {
	return t.showSources
}

// PageUp scrolls one page towards older entries.
func (t *Transcript) PageUp() {
	t.viewport.PageUp()
}

// PageDown scrolls one page towards newer entries.
func (t *Transcript) PageDown() {
	t.viewport.PageDown()
}

// AtBottom reports whether the newest content is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// SetDimensions sets the viewport size and rewraps the content.
func (t *Transcript) SetDimensions(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	t.width = width
	t.height = height
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// Content returns the full rendered transcript.
func (t *Transcript) Content() string {
	if len(t.entries) == 0 && t.pending == "" {
		return t.styles.Muted.Render("No questions yet. Type one below and press enter.")
	}

	blocks := make([]string, 0, len(t.entries)+1)
	for i, e := range t.entries {
		blocks = append(blocks, t.renderEntry(i+1, e))
	}
	if t.pending != "" {
		blocks = append(blocks, t.renderQuestion(len(t.entries)+1, t.pending)+"\n"+
			t.styles.Muted.Render("  ..."))
	}
	return strings.Join(blocks, "\n\n")
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(t.Content())
}

func (t *Transcript) renderQuestion(n int, question string) string {
	return t.styles.Question.Width(t.width).Render(fmt.Sprintf("Q%d: %s", n, question))
}

func (t *Transcript) renderEntry(n int, e Entry) string {
	lines := []string{t.renderQuestion(n, e.Question)}

	if e.Err != nil {
		lines = append(lines, t.styles.Error.PaddingLeft(2).Render("Error: "+e.Err.Error()))
		return strings.Join(lines, "\n")
	}
	if e.Answer == nil {
		return strings.Join(lines, "\n")
	}

	lines = append(lines, t.styles.Answer.Width(t.width).Render(e.Answer.AnswerText))

	if t.showSources && e.Answer.HasSources() {
		lines = append(lines, "")
		for i, hit := range e.Answer.SourceChunks {
			label := fmt.Sprintf("[%d] %s (similarity %.3f)", i+1, hit.Label(), hit.Similarity)
			lines = append(lines,
				t.styles.Source.Render(label),
				t.styles.Snippet.Width(t.width).Render(snippet(hit.Text, snippetLength)),
			)
		}
	}
	return strings.Join(lines, "\n")
}

// snippet flattens whitespace and cuts text to at most n runes.
func snippet(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
