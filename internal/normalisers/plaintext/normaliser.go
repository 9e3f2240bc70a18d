// Package plaintext provides a Normaliser for plain text files in UTF-8,
// CP949 or Latin-1.
package plaintext

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Encoding names recorded in the result metadata.
const (
	EncodingUTF8   = "utf-8"
	EncodingCP949  = "cp949"
	EncodingLatin1 = "latin-1"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedFormats returns the extension tags this normaliser handles.
func (n *Normaliser) SupportedFormats() []string {
	return []string{"txt", "text", "log", "csv"}
}

// Normalise decodes the raw bytes. UTF-8 is tried first, then CP949, and
// Latin-1 accepts anything that is left.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, encoding := Decode(raw.Content)

	return &driven.NormaliseResult{
		Text:  text,
		Title: raw.Title(),
		Metadata: map[string]string{
			"format":   "text",
			"encoding": encoding,
		},
	}, nil
}

// Decode converts b to a string and names the encoding it was read as.
// A leading UTF-8 byte order mark is dropped.
func Decode(b []byte) (string, string) {
	b = bytes.TrimPrefix(b, utf8BOM)

	if utf8.Valid(b) {
		return string(b), EncodingUTF8
	}

	// The decoder substitutes U+FFFD for byte sequences that are not CP949
	// instead of failing.
	if decoded, err := korean.EUCKR.NewDecoder().Bytes(b); err == nil && !strings.ContainsRune(string(decoded), utf8.RuneError) {
		return string(decoded), EncodingCP949
	}

	decoded, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(decoded), EncodingLatin1
}
