// Package diffview renders a file-vs-clipboard comparison.
//
// The clipboard side is modelled as a virtual document: a synthetic,
// read-only document whose content is computed from the clipboard at render
// time rather than read from disk. Its URI embeds the target file's
// extension (a syntax-highlighting hint for editor-based viewers) and a
// fresh token so an editor never serves a stale render from cache.
//
// Two viewers exist: Terminal renders a word-level diff in place (tokendiff
// over diffx), Editor materialises the virtual document and opens the host
// editor's own diff tab.
package diffview

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dacharyc/tokendiff"
	"github.com/google/uuid"

	"go.klb.dev/clipdiff/internal/clip"
	"go.klb.dev/clipdiff/internal/editor"
)

// VirtualScheme is the synthetic URI scheme of clipboard documents.
const VirtualScheme = "clipdiff-virtual"

// Document is a virtual document whose content is provided on demand.
type Document struct {
	// URI is the synthetic address, e.g.
	// clipdiff-virtual:///clipboard-5f3a….txt
	URI string

	// Provide returns the document content. Called each time the document
	// is rendered; never returns an error — a failed clipboard read yields
	// an inline comment describing the failure instead.
	Provide func() string
}

// NewClipboardDocument builds the virtual document for a diff against
// targetPath. The document name carries targetPath's extension and a fresh
// uuid token.
func NewClipboardDocument(targetPath string, reader clip.Reader) *Document {
	name := fmt.Sprintf("clipboard-%s%s", uuid.NewString(), filepath.Ext(targetPath))
	return &Document{
		URI: fmt.Sprintf("%s:///%s", VirtualScheme, name),
		Provide: func() string {
			text, err := reader.ReadText()
			if err != nil {
				return fmt.Sprintf("// clipboard read failed: %v", err)
			}
			return text
		},
	}
}

// Name returns the document's base name (the last URI segment).
func (d *Document) Name() string {
	return d.URI[strings.LastIndexByte(d.URI, '/')+1:]
}

// Materialize writes the document's current content to a temp file and
// returns its path, for viewers that need an on-disk left-hand side.
func (d *Document) Materialize() (string, error) {
	dir := filepath.Join(os.TempDir(), "clipdiff")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("materialize %s: %w", d.URI, err)
	}
	path := filepath.Join(dir, d.Name())
	if err := os.WriteFile(path, []byte(d.Provide()), 0o600); err != nil {
		return "", fmt.Errorf("materialize %s: %w", d.URI, err)
	}
	return path, nil
}

// Viewer displays a comparison between a virtual document and a file on disk.
type Viewer interface {
	ShowDiff(doc *Document, filePath string) error
}

// Terminal renders a word-level line diff to Out. The clipboard document is
// the old side, the file the new side.
type Terminal struct {
	Out   io.Writer
	Color bool
}

func (t *Terminal) ShowDiff(doc *Document, filePath string) error {
	fileText, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	fmtOpts := tokendiff.DefaultFormatOptions()
	fmtOpts.UseColor = t.Color

	out := tokendiff.DiffLineByLine(doc.Provide(), string(fileText),
		tokendiff.DefaultOptions(), fmtOpts, "best", 0.5)

	fmt.Fprintf(t.Out, "%s <-> %s\n", doc.Name(), filePath)
	if !out.HasChanges {
		fmt.Fprintln(t.Out, "no differences")
		return nil
	}
	for _, line := range out.Lines {
		prefix := "  "
		if line.HasChanges {
			prefix = "| "
		}
		fmt.Fprintf(t.Out, "%s%s\n", prefix, line.Output)
	}
	return nil
}

// Editor materialises the virtual document and opens the external editor's
// diff tab on it.
type Editor struct {
	Helper *editor.Helper
}

func (e *Editor) ShowDiff(doc *Document, filePath string) error {
	left, err := doc.Materialize()
	if err != nil {
		return err
	}
	return e.Helper.OpenDiff(left, filePath)
}
