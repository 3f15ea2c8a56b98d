// Package workspace models an editor window: the set of root folders it has
// open, and the ownership test that decides which window should act on a
// given file path.
package workspace

import (
	"os"
	"path/filepath"
	"strings"
)

// Window describes one open window. A window with no roots and no workspace
// file is a "loose files" window and accepts any path.
type Window struct {
	// ID identifies the window's agent process.
	ID string

	// Roots are the absolute paths of the window's open root folders.
	Roots []string

	// WorkspaceFile is the path of an explicit workspace definition file,
	// if one is open. Its presence alone disqualifies the window from
	// loose-files behaviour even when Roots is empty.
	WorkspaceFile string
}

// Owns reports whether path belongs to this window: equal to one of the
// window's roots, or under one on a path-component boundary. A loose-files
// window owns every path. The test is pure; it never touches the filesystem.
func (w *Window) Owns(path string) bool {
	if len(w.Roots) == 0 {
		return w.WorkspaceFile == ""
	}
	p := filepath.Clean(path)
	for _, root := range w.Roots {
		if underRoot(p, filepath.Clean(root)) {
			return true
		}
	}
	return false
}

// underRoot reports whether cleaned path p equals root or lies beneath it.
// Comparison is on a separator boundary so /a/bc is not under /a/b.
func underRoot(p, root string) bool {
	if p == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(p, root)
	}
	return strings.HasPrefix(p, root+string(filepath.Separator))
}

// Label returns the window's display name for logging: the workspace file's
// base name (without extension), else the first root's base name, else
// "NoWorkspace".
func (w *Window) Label() string {
	if w.WorkspaceFile != "" {
		base := filepath.Base(w.WorkspaceFile)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	if len(w.Roots) > 0 {
		return filepath.Base(filepath.Clean(w.Roots[0]))
	}
	return "NoWorkspace"
}

// Normalize cleans the window's roots and resolves them to absolute paths.
// Relative roots are resolved against the current directory.
func (w *Window) Normalize() error {
	for i, root := range w.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		w.Roots[i] = abs
	}
	return nil
}

// IsRegularFile reports whether path names an existing regular file on disk.
// The palette command requires a saved on-disk document; directories,
// sockets, and nonexistent paths all fail.
func IsRegularFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
