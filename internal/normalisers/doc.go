// Package normalisers turns uploaded file bytes into plain text.
//
// Each sub-package implements driven.Normaliser for one family of formats.
// The Registry dispatches a document to the normaliser registered for its
// format tag (the lower-cased filename extension) and applies the shared
// error contract: unknown formats, failed extraction and blank results are
// reported as distinct domain errors.
package normalisers
