package attach

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

const (
	dirMode  = 0o750
	fileMode = 0o600
)

// ErrRevoked is returned when a document still points at a session
// reference that is no longer live.
var ErrRevoked = errors.New("session reference is no longer live")

// Archive copies every document that still points at a live session
// reference into boardDir/docsDir/<id>/ and rewrites its URL to the
// board-relative path. Documents with durable URLs are returned unchanged.
// The input slice is not modified.
func Archive(boardDir, docsDir string, id int, docs []task.Document, r Resolver) ([]task.Document, error) {
	out := make([]task.Document, len(docs))
	copy(out, docs)

	relDir := filepath.Join(docsDir, strconv.Itoa(id))
	absDir := filepath.Join(boardDir, relDir)
	prepared := false

	for i, d := range out {
		if !IsSessionRef(d.URL) {
			continue
		}
		src, ok := r.Resolve(d.URL)
		if !ok {
			return nil, fmt.Errorf("archiving %s: %w", d.Name, ErrRevoked)
		}
		if !prepared {
			if err := os.MkdirAll(absDir, dirMode); err != nil {
				return nil, fmt.Errorf("creating documents directory: %w", err)
			}
			prepared = true
		}

		name, err := uniqueName(absDir, filepath.Base(d.Name))
		if err != nil {
			return nil, err
		}
		if err := copyFile(src, filepath.Join(absDir, name)); err != nil {
			return nil, fmt.Errorf("archiving %s: %w", d.Name, err)
		}
		out[i].URL = filepath.ToSlash(filepath.Join(relDir, name))
	}
	return out, nil
}

// uniqueName returns name, or name with a numeric suffix before the
// extension if a file by that name already exists in dir.
func uniqueName(dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 2; ; n++ {
		_, err := os.Stat(filepath.Join(dir, candidate))
		if errors.Is(err, os.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // path resolved from a live session reference
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode) //nolint:gosec // dst built from board dir
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck,gosec // already failing
		return err
	}
	return out.Close()
}
