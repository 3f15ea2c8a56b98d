package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwns_RootFolders(t *testing.T) {
	w := &Window{Roots: []string{"/x/y", "/srv/projects/api"}}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"under first root", "/x/y/f.txt", true},
		{"nested under first root", "/x/y/deep/nested/f.txt", true},
		{"equal to a root", "/x/y", true},
		{"under second root", "/srv/projects/api/main.go", true},
		{"outside all roots", "/a/b/file.txt", false},
		{"parent of a root", "/x", false},
		{"sibling with shared prefix", "/x/yz/f.txt", false},
		{"uncleaned path under root", "/x/y/../y/f.txt", true},
		{"uncleaned path escaping root", "/x/y/../z/f.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Owns(tt.path), "path %q", tt.path)
		})
	}
}

func TestOwns_LooseFilesWindow(t *testing.T) {
	w := &Window{}
	assert.True(t, w.Owns("/anything/at/all.txt"))
	assert.True(t, w.Owns("/"))
}

func TestOwns_WorkspaceFileWithoutRoots(t *testing.T) {
	// A window with a workspace file open is not a loose-files window even
	// when it has no root folders.
	w := &Window{WorkspaceFile: "/home/me/proj.code-workspace"}
	assert.False(t, w.Owns("/anything/at/all.txt"))
}

func TestOwns_FilesystemRootAsRoot(t *testing.T) {
	w := &Window{Roots: []string{string(filepath.Separator)}}
	assert.True(t, w.Owns("/etc/hosts"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "proj",
		(&Window{WorkspaceFile: "/home/me/proj.code-workspace"}).Label())
	assert.Equal(t, "api",
		(&Window{Roots: []string{"/srv/projects/api/"}}).Label())
	assert.Equal(t, "NoWorkspace", (&Window{}).Label())
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsRegularFile(dir), "directories are not regular files")
	assert.False(t, IsRegularFile(filepath.Join(dir, "missing.txt")))

	f := filepath.Join(dir, "saved.txt")
	writeFile(t, f, "hello")
	assert.True(t, IsRegularFile(f))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
