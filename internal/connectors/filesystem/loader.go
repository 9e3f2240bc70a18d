// Package filesystem loads local files and directories for ingestion.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// DefaultMaxFileSize caps the size of a single loaded file.
const DefaultMaxFileSize = 50 << 20

// Skipped records a path that was not loaded and why.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Loader resolves paths to files and reads them.
// Directories are walked recursively; hidden files and directories are skipped.
type Loader struct {
	include     []string
	exclude     []string
	formats     map[string]bool
	maxFileSize int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithInclude keeps only directory entries whose path relative to the walked
// directory matches one of the doublestar patterns (e.g. "**/*.pdf").
func WithInclude(patterns ...string) Option {
	return func(l *Loader) { l.include = append(l.include, patterns...) }
}

// WithExclude drops directory entries matching any pattern, by relative path or base name.
func WithExclude(patterns ...string) Option {
	return func(l *Loader) { l.exclude = append(l.exclude, patterns...) }
}

// WithFormats limits directory walks to the given extensions (without the dot).
// Explicitly named files are always loaded so unsupported ones are reported downstream.
func WithFormats(formats ...string) Option {
	return func(l *Loader) {
		for _, f := range formats {
			l.formats[strings.ToLower(strings.TrimPrefix(f, "."))] = true
		}
	}
}

// WithMaxFileSize sets the largest file that will be read.
func WithMaxFileSize(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxFileSize = n
		}
	}
}

// New creates a Loader, validating glob patterns.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		formats:     make(map[string]bool),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, p := range append(append([]string{}, l.include...), l.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad glob pattern %q", domain.ErrInvalidInput, p)
		}
	}
	return l, nil
}

// Collect resolves paths to a de-duplicated list of files in walk order.
// Paths that cannot be used are returned as Skipped; only context errors fail.
func (l *Loader) Collect(ctx context.Context, paths []string) ([]string, []Skipped, error) {
	var files []string
	var skipped []Skipped
	seen := make(map[string]bool)

	add := func(path string) {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if !seen[key] {
			seen[key] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		info, err := os.Stat(root)
		if err != nil {
			reason := err.Error()
			if errors.Is(err, fs.ErrNotExist) {
				reason = "does not exist"
			}
			skipped = append(skipped, Skipped{Path: root, Reason: reason})
			continue
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if walkErr != nil {
				skipped = append(skipped, Skipped{Path: path, Reason: walkErr.Error()})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if path == root {
				return nil
			}

			if isHidden(d.Name()) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)

			if l.excluded(rel, d.Name()) {
				logger.Debug("excluded %s", path)
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if !l.included(rel) {
				return nil
			}
			if len(l.formats) > 0 && !l.formats[domain.FormatOf(path)] {
				return nil
			}

			add(path)
			return nil
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			skipped = append(skipped, Skipped{Path: root, Reason: err.Error()})
		}
	}

	return files, skipped, nil
}

// Read loads one file as an ingestion input named by its base name.
func (l *Loader) Read(path string) (domain.FileInput, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileInput{}, err
	}
	if info.Size() > l.maxFileSize {
		return domain.FileInput{}, fmt.Errorf("%s: file is %d bytes, limit is %d", path, info.Size(), l.maxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.FileInput{}, err
	}
	return domain.FileInput{Filename: filepath.Base(path), Content: content}, nil
}

// Load collects and reads paths. Files that cannot be read are added to Skipped.
func (l *Loader) Load(ctx context.Context, paths []string) ([]domain.FileInput, []Skipped, error) {
	files, skipped, err := l.Collect(ctx, paths)
	if err != nil {
		return nil, nil, err
	}

	inputs := make([]domain.FileInput, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		input, err := l.Read(path)
		if err != nil {
			skipped = append(skipped, Skipped{Path: path, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, input)
	}

	return inputs, skipped, nil
}

func (l *Loader) included(rel string) bool {
	if len(l.include) == 0 {
		return true
	}
	for _, p := range l.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (l *Loader) excluded(rel, base string) bool {
	for _, p := range l.exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}
