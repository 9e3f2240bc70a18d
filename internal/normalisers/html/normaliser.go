// Package html provides a Normaliser that extracts the readable text of HTML pages.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/normalisers/plaintext"
)

var _ driven.Normaliser = (*Normaliser)(nil)

var (
	titleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	hiddenBlocks  = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg|template)\b[^>]*>.*?</(script|style|noscript|head|svg|template)>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBoundary = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|td|th|blockquote|pre|table|section|article|header|footer|br|hr)\b[^>]*>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t\x{00a0}]+`)
)

// Normaliser handles HTML pages saved to disk.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedFormats returns the extension tags this normaliser handles.
func (n *Normaliser) SupportedFormats() []string {
	return []string{"html", "htm"}
}

// Normalise strips markup, keeping one line per block element so sentence
// and line boundaries survive for the chunker.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, encoding := plaintext.Decode(raw.Content)

	title := raw.Title()
	if m := titleTag.FindStringSubmatch(content); m != nil {
		if t := strings.TrimSpace(html.UnescapeString(m[1])); t != "" {
			title = t
		}
	}

	return &driven.NormaliseResult{
		Text:  Strip(content),
		Title: title,
		Metadata: map[string]string{
			"format":   "html",
			"encoding": encoding,
		},
	}, nil
}

// Strip returns the visible text of an HTML document, one block per line.
func Strip(content string) string {
	content = hiddenBlocks.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = blockBoundary.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
