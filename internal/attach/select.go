// Package attach captures files selected for a task, hands out
// session-scoped preview references for them, and archives them into
// the board's documents directory on submission.
package attach

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// sniffLen is the number of bytes http.DetectContentType looks at.
const sniffLen = 512

// ErrNotRegular is returned when a selected path is a directory or device.
var ErrNotRegular = errors.New("not a regular file")

// Selected is a file picked by the user, before it becomes a task document.
type Selected struct {
	Name string // base name shown to the user
	Path string // local path the preview reference resolves to
	Size int64
	Type string // media type
}

// Select stats each path and detects its media type. The result keeps the
// order of paths.
func Select(paths ...string) ([]Selected, error) {
	out := make([]Selected, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("selecting %s: %w", p, err)
		}
		if !info.Mode().IsRegular() {
			return nil, fmt.Errorf("selecting %s: %w", p, ErrNotRegular)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		typ, err := DetectType(abs)
		if err != nil {
			return nil, err
		}
		out = append(out, Selected{
			Name: info.Name(),
			Path: abs,
			Size: info.Size(),
			Type: typ,
		})
	}
	return out, nil
}

// DetectType returns the media type of the file at path, first by extension
// and then by sniffing its content.
func DetectType(path string) (string, error) {
	if typ := mime.TypeByExtension(filepath.Ext(path)); typ != "" {
		return typ, nil
	}

	f, err := os.Open(path) //nolint:gosec // user-selected file
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// Expand resolves glob patterns (including "**") to file paths. Patterns
// without glob metacharacters are passed through unchanged so a missing
// file is reported by Select. Each path appears once, in first-match order.
func Expand(patterns []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(pattern)
			continue
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
