// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// chromeHeight is the number of lines used by the header, input and status bar.
const chromeHeight = 8

// View represents the ask view with a transcript, question input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.QuestionInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	ragService driving.RAGService
	ctx        context.Context

	width     int
	height    int
	ready     bool
	answering bool
	err       error
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, ragService driving.RAGService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		transcript: transcript.New(s),
		statusbar:  status.NewBar(s, km),
		ragService: ragService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
	}
}

// WithContext sets the context used for answering.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.StatusLoaded:
		if msg.Err == nil {
			v.statusbar.SetDocumentCount(msg.Status.DocumentsCount)
			v.statusbar.SetModel(msg.Status.LLMModel)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	v.transcript, cmd = v.transcript.Update(msg)
	cmds = append(cmds, cmd)

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.ScrollUp):
		v.transcript.PageUp()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.ScrollDown):
		v.transcript.PageDown()
		return v, nil
	}

	// Only scrolling is allowed while an answer is pending.
	if v.answering {
		return v, nil
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		if v.input.Value() != "" {
			v.input.Reset()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(msg.String(), v.keymap.ToggleSources):
		v.transcript.ToggleSources()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Clear):
		v.transcript.Clear()
		v.ClearError()
		return v, nil

	case keymap.Matches(msg.String(), v.keymap.Ask):
		question := v.input.Question()
		if question == "" {
			return v, nil
		}
		v.answering = true
		v.err = nil
		v.input.Reset()
		v.transcript.SetPending(question)
		v.statusbar.SetMessage("")
		v.statusbar.SetState(status.StateAnswering)
		return v, tea.Batch(v.statusbar.Tick(), v.askQuestion(question))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// askQuestion answers question off the update loop.
func (v *View) askQuestion(question string) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		if v.ragService == nil {
			return messages.AnswerReceived{Question: question, Err: ErrNoRAGService}
		}
		answer, err := v.ragService.AnswerQuestion(ctx, question)
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// handleAnswer records an answer in the transcript.
func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.answering = false
	v.transcript.Append(transcript.Entry{
		Question: msg.Question,
		Answer:   msg.Answer,
		Err:      msg.Err,
	})

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetState(status.StateReady)
	if msg.Answer != nil && !msg.Answer.HasSources() {
		v.statusbar.SetMessage("no matching passages")
	} else {
		v.statusbar.SetMessage("")
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("docqa"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-chromeHeight)
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Answering reports whether a question is awaiting its answer.
func (v *View) Answering() bool {
	return v.answering
}

// Question returns the text currently in the input.
func (v *View) Question() string {
	return v.input.Value()
}

// SetQuestion sets the text in the input.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// Entries returns the answered exchanges.
func (v *View) Entries() []transcript.Entry {
	return v.transcript.Entries()
}

// LastAnswer returns the most recent successful answer, or nil.
func (v *View) LastAnswer() *domain.Answer {
	entries := v.transcript.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Answer != nil {
			return entries[i].Answer
		}
	}
	return nil
}

// StatusBar exposes the status bar for state inspection.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ClearError clears the current error.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.Clear()
}

// Reset empties the input and focuses it. The transcript is kept.
func (v *View) Reset() {
	v.input.Reset()
	v.input.Focus()
	v.ClearError()
}
