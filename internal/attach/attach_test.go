package attach

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/marketboard/internal/task"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSelect(t *testing.T) {
	dir := t.TempDir()
	pdf := writeFile(t, filepath.Join(dir, "plan.pdf"), "%PDF-1.4")
	txt := writeFile(t, filepath.Join(dir, "README"), "plain words\n")

	got, err := Select(pdf, txt)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "plan.pdf", got[0].Name)
	assert.Equal(t, int64(8), got[0].Size)
	assert.Equal(t, "application/pdf", got[0].Type)
	assert.True(t, filepath.IsAbs(got[0].Path))

	assert.Equal(t, "README", got[1].Name)
	assert.True(t, strings.HasPrefix(got[1].Type, "text/plain"), got[1].Type)
}

func TestSelectErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Select(filepath.Join(dir, "missing.pdf"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = Select(dir)
	require.ErrorIs(t, err, ErrNotRegular)
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.pdf"), "a")
	b := writeFile(t, filepath.Join(dir, "sub", "deep", "b.pdf"), "b")
	writeFile(t, filepath.Join(dir, "c.txt"), "c")

	got, err := Expand([]string{filepath.Join(dir, "**", "*.pdf"), a})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, got)

	literal := filepath.Join(dir, "not-there.pdf")
	got, err = Expand([]string{literal})
	require.NoError(t, err)
	assert.Equal(t, []string{literal}, got)
}

func TestExpandBadPattern(t *testing.T) {
	_, err := Expand([]string{"[unclosed"})
	require.Error(t, err)
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	ref := r.CreateRef(Selected{Name: "devis final.pdf", Path: "/tmp/devis final.pdf"})

	assert.True(t, IsSessionRef(ref))
	assert.True(t, strings.HasSuffix(ref, "/devis%20final.pdf"), ref)
	assert.Equal(t, 1, r.Len())

	p, ok := r.Resolve(ref)
	require.True(t, ok)
	assert.Equal(t, "/tmp/devis final.pdf", p)

	other := r.CreateRef(Selected{Name: "devis final.pdf", Path: "/tmp/other.pdf"})
	assert.NotEqual(t, ref, other, "each selection gets its own reference")

	assert.True(t, r.Revoke(ref))
	assert.False(t, r.Revoke(ref))
	_, ok = r.Resolve(ref)
	assert.False(t, ok)

	assert.Equal(t, 1, r.RevokeAll())
	assert.Equal(t, 0, r.Len())
}

func TestIsSessionRef(t *testing.T) {
	assert.True(t, IsSessionRef("session://abc/x.pdf"))
	assert.False(t, IsSessionRef("documents/4/x.pdf"))
	assert.False(t, IsSessionRef(""))
}

func TestArchive(t *testing.T) {
	src := t.TempDir()
	board := t.TempDir()
	r := NewRegistry()

	sel, err := Select(
		writeFile(t, filepath.Join(src, "pv.pdf"), "minutes"),
		writeFile(t, filepath.Join(src, "other", "pv.pdf"), "second"),
	)
	require.NoError(t, err)

	docs := []task.Document{
		{Name: "old.pdf", Size: 3, URL: "documents/9/old.pdf"},
	}
	for _, s := range sel {
		docs = append(docs, task.Document{Name: s.Name, Size: s.Size, Type: s.Type, URL: r.CreateRef(s)})
	}

	out, err := Archive(board, "documents", 9, docs, r)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "documents/9/old.pdf", out[0].URL)
	assert.Equal(t, "documents/9/pv.pdf", out[1].URL)
	assert.Equal(t, "documents/9/pv-2.pdf", out[2].URL)
	assert.True(t, IsSessionRef(docs[1].URL), "input is not modified")

	data, err := os.ReadFile(filepath.Join(board, "documents", "9", "pv-2.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestArchiveRevokedReference(t *testing.T) {
	src := t.TempDir()
	r := NewRegistry()
	sel, err := Select(writeFile(t, filepath.Join(src, "a.pdf"), "a"))
	require.NoError(t, err)

	ref := r.CreateRef(sel[0])
	r.RevokeAll()

	_, err = Archive(t.TempDir(), "documents", 1, []task.Document{{Name: "a.pdf", URL: ref}}, r)
	require.ErrorIs(t, err, ErrRevoked)
}

func TestArchiveNothingToCopy(t *testing.T) {
	board := t.TempDir()
	out, err := Archive(board, "documents", 2, []task.Document{{Name: "x", URL: "documents/2/x"}}, NewRegistry())
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.NoDirExists(t, filepath.Join(board, "documents", "2"))
}
