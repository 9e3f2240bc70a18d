// Package pdf provides a Normaliser that extracts the text layer of PDF files.
// Scanned pages without a text layer produce no text.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedFormats returns the extension tags this normaliser handles.
func (n *Normaliser) SupportedFormats() []string {
	return []string{"pdf"}
}

// Normalise extracts the plain text of every page, pages joined by newlines.
// A page that fails to decode is skipped; the document fails only when the
// file itself cannot be parsed.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (result *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("parsing pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf %s: skipping page %d: %v", raw.Filename, i, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	title := raw.Title()
	if t := reader.Trailer().Key("Info").Key("Title").Text(); strings.TrimSpace(t) != "" {
		title = strings.TrimSpace(t)
	}

	return &driven.NormaliseResult{
		Text:  strings.Join(pages, "\n"),
		Title: title,
		Metadata: map[string]string{
			"format": "pdf",
			"pages":  strconv.Itoa(total),
		},
	}, nil
}
