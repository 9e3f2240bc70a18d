package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument is an uploaded file before text extraction.
type RawDocument struct {
	// Filename is the name the file was uploaded with.
	Filename string

	// Format is the lower-case extension tag without the dot (e.g. "pdf").
	Format string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller-supplied key-value pairs.
	Metadata map[string]string
}

// NewRawDocument builds a RawDocument whose format is derived from the filename.
func NewRawDocument(filename string, content []byte) *RawDocument {
	return &RawDocument{
		Filename: filename,
		Format:   FormatOf(filename),
		Content:  content,
	}
}

// FormatOf returns the lower-case extension of filename without the dot.
func FormatOf(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// Title derives a human-readable title from the filename: the base name
// without extension, with underscores and dashes turned into spaces.
func (r *RawDocument) Title() string {
	name := filepath.Base(r.Filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}
