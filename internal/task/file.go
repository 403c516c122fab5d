package task

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

const fileMode = 0o600

const delimiter = "---"

// Sentinel errors for malformed task files.
var (
	ErrNoFrontmatter       = errors.New("file does not start with YAML frontmatter (---)")
	ErrUnclosedFrontmatter = errors.New("unclosed frontmatter (missing closing ---)")
)

// Read parses a task file and returns the Task with body populated.
func Read(path string) (*Task, error) {
	data, err := os.ReadFile(path) //nolint:gosec // task path from trusted source
	if err != nil {
		return nil, fmt.Errorf("reading task file: %w", err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	t.File = path
	return t, nil
}

// Parse decodes a task from markdown with YAML frontmatter.
func Parse(data []byte) (*Task, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var t Task
	if err := yaml.Unmarshal(fm, &t); err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}
	if t.Documents == nil {
		t.Documents = []Document{}
	}
	t.Body = body
	return &t, nil
}

// Marshal encodes a task as markdown with YAML frontmatter.
func Marshal(t *Task) ([]byte, error) {
	fm, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	buf.Write(fm)
	buf.WriteString(delimiter + "\n")
	if t.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Body)
		if !strings.HasSuffix(t.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// Write serializes a task to path. The file is written to a temporary
// sibling first and renamed into place, so readers never see a partial file.
func Write(path string, t *Task) error {
	data, err := Marshal(t)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".task-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // already failing
		return fmt.Errorf("writing task file: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close() //nolint:errcheck,gosec // already failing
		return fmt.Errorf("writing task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing task file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// splitFrontmatter splits a markdown file into YAML frontmatter and body.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")

	if !strings.HasPrefix(content, delimiter+"\n") {
		return nil, "", ErrNoFrontmatter
	}
	rest := content[len(delimiter)+1:]

	var fm, body string
	switch idx := strings.Index(rest, "\n"+delimiter+"\n"); {
	case idx >= 0:
		fm = rest[:idx]
		body = strings.TrimLeft(rest[idx+len(delimiter)+2:], "\n")
	case strings.HasSuffix(rest, "\n"+delimiter):
		fm = strings.TrimSuffix(rest, "\n"+delimiter)
	default:
		return nil, "", ErrUnclosedFrontmatter
	}

	return []byte(fm), body, nil
}
