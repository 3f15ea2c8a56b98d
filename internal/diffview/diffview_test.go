package diffview

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipdiff/internal/clip"
)

func staticClip(text string) clip.Reader {
	return clip.Func(func() (string, error) { return text, nil })
}

func TestNewClipboardDocument_URI(t *testing.T) {
	doc := NewClipboardDocument("/x/y/main.go", staticClip("package main"))

	assert.True(t, strings.HasPrefix(doc.URI, VirtualScheme+":///clipboard-"))
	assert.True(t, strings.HasSuffix(doc.URI, ".go"),
		"URI carries the target file's extension as a highlighting hint")
	assert.Equal(t, "package main", doc.Provide())
}

func TestNewClipboardDocument_FreshTokenPerRequest(t *testing.T) {
	a := NewClipboardDocument("/x/f.txt", staticClip("a"))
	b := NewClipboardDocument("/x/f.txt", staticClip("b"))
	assert.NotEqual(t, a.URI, b.URI, "each document gets a fresh token")
}

func TestNewClipboardDocument_ReadFailureBecomesComment(t *testing.T) {
	reader := clip.Func(func() (string, error) {
		return "", errors.New("display unavailable")
	})
	doc := NewClipboardDocument("/x/f.txt", reader)

	content := doc.Provide()
	assert.Contains(t, content, "// clipboard read failed:")
	assert.Contains(t, content, "display unavailable")
}

func TestDocument_Materialize(t *testing.T) {
	doc := NewClipboardDocument("/x/f.txt", staticClip("clipboard body"))

	path, err := doc.Materialize()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "clipboard body", string(data))
	assert.Equal(t, doc.Name(), filepath.Base(path))
}

func TestTerminal_ShowDiff(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("one two three\n"), 0o644))

	var out strings.Builder
	term := &Terminal{Out: &out}
	doc := NewClipboardDocument(file, staticClip("one 2 three\n"))

	require.NoError(t, term.ShowDiff(doc, file))

	got := out.String()
	assert.Contains(t, got, file)
	assert.Contains(t, got, "2", "deleted clipboard token appears")
	assert.Contains(t, got, "two", "inserted file token appears")
	assert.NotContains(t, got, "no differences")
}

func TestTerminal_ShowDiff_Identical(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("same text\n"), 0o644))

	var out strings.Builder
	term := &Terminal{Out: &out}
	doc := NewClipboardDocument(file, staticClip("same text\n"))

	require.NoError(t, term.ShowDiff(doc, file))
	assert.Contains(t, out.String(), "no differences")
}

func TestTerminal_ShowDiff_MissingFile(t *testing.T) {
	var out strings.Builder
	term := &Terminal{Out: &out}
	doc := NewClipboardDocument("/nope/f.txt", staticClip("text"))

	err := term.ShowDiff(doc, "/nope/f.txt")
	require.Error(t, err)
}
