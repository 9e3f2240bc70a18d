// Package docx provides a Normaliser for Office Open XML word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// errNoDocumentPart indicates the archive lacks word/document.xml.
var errNoDocumentPart = errors.New("docx: missing " + documentPart)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedFormats returns the extension tags this normaliser handles.
func (n *Normaliser) SupportedFormats() []string {
	return []string{"docx"}
}

// Normalise extracts the paragraphs of the document body, one per line.
// Paragraphs inside tables are included in reading order.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", err)
	}

	body, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}

	paragraphs, err := parseParagraphs(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", documentPart, err)
	}

	title := raw.Title()
	if core, err := readPart(reader, corePart); err == nil {
		if t := parseTitle(core); t != "" {
			title = t
		}
	}

	return &driven.NormaliseResult{
		Text:  strings.Join(paragraphs, "\n"),
		Title: title,
		Metadata: map[string]string{
			"format":     "docx",
			"paragraphs": strconv.Itoa(len(paragraphs)),
		},
	}, nil
}

// readPart returns the contents of the named archive member.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return content, nil
	}
	if name == documentPart {
		return nil, errNoDocumentPart
	}
	return nil, fmt.Errorf("docx: missing %s", name)
}

// parseParagraphs walks the document XML and returns the non-blank text of
// each w:p element. Runs are concatenated; w:tab and w:br become whitespace.
func parseParagraphs(content []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if p := strings.TrimSpace(current.String()); p != "" {
					paragraphs = append(paragraphs, p)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(el)
			}
		}
	}
	return paragraphs, nil
}

// coreXML represents the part of docProps/core.xml we read.
type coreXML struct {
	Title string `xml:"title"`
}

func parseTitle(content []byte) string {
	var core coreXML
	if err := xml.Unmarshal(content, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}
