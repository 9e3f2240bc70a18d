// Package overview provides the index status view for the TUI.
package overview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrNoRAGService indicates that no RAG service was provided.
var ErrNoRAGService = errors.New("rag service is required")

// View shows the service status and the settings that shape answers.
type View struct {
	styles          *styles.Styles
	ragService      driving.RAGService
	settingsService driving.SettingsService
	ctx             context.Context

	status   *domain.Status
	settings *domain.AppSettings
	err      error
	loading  bool

	width  int
	height int
	ready  bool
}

// NewView creates a new overview. settingsService may be nil.
func NewView(
	s *styles.Styles,
	ragService driving.RAGService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		ragService:      ragService,
		settingsService: settingsService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context used when loading status.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the status.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return Load(v.ctx, v.ragService, v.settingsService)
}

// Load returns a command that fetches the status and settings.
func Load(ctx context.Context, rag driving.RAGService, settings driving.SettingsService) tea.Cmd {
	return func() tea.Msg {
		if rag == nil {
			return messages.StatusLoaded{Err: ErrNoRAGService}
		}
		msg := messages.StatusLoaded{Status: rag.Status(ctx)}
		if settings != nil {
			msg.Settings, msg.Err = settings.Get()
		}
		return msg
	}
}

// Update handles messages for the overview.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.StatusLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			status := msg.Status
			v.status = &status
			v.settings = msg.Settings
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "r":
			return v, v.Init()
		}
	}

	return v, nil
}

// View renders the overview.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Status"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.status == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	default:
		v.writeStatus(&b)
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[r] Refresh  [esc] Back"))
	return b.String()
}

func (v *View) writeStatus(b *strings.Builder) {
	rows := [][2]string{
		{"Status", v.status.Status},
		{"Documents", fmt.Sprintf("%d", v.status.DocumentsCount)},
		{"Index", orNone(v.status.IndexBackend)},
		{"Embedding model", orNone(v.status.EmbeddingModel)},
		{"LLM model", orNone(v.status.LLMModel)},
	}
	if v.status.Dimensions > 0 {
		rows = append(rows, [2]string{"Dimensions", fmt.Sprintf("%d", v.status.Dimensions)})
	}
	v.writeRows(b, rows)

	if v.settings == nil {
		return
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Settings"))
	b.WriteString("\n")
	s := v.settings
	v.writeRows(b, [][2]string{
		{"Chunk size", fmt.Sprintf("%d (overlap %d)", s.Chunking.Size, s.Chunking.Overlap)},
		{"Top K", fmt.Sprintf("%d", s.Retrieval.TopK)},
		{"Language", s.Answer.Language},
		{"Temperature", fmt.Sprintf("%.2f", s.Answer.Temperature())},
		{"Max tokens", fmt.Sprintf("%d", s.Answer.MaxTokens)},
	})
}

func (v *View) writeRows(b *strings.Builder, rows [][2]string) {
	for _, row := range rows {
		fmt.Fprintf(b, "  %-16s %s\n", row[0]+":", v.styles.Normal.Render(row[1]))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(not configured)"
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Loading reports whether a status load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Status returns the last loaded status, or nil.
func (v *View) Status() *domain.Status {
	return v.status
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
