package pending

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestLoad_EmptySlot(t *testing.T) {
	s := tempStore(t)

	a, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, a, "missing state file behaves as empty slot")
}

func TestSaveLoadClear(t *testing.T) {
	s := tempStore(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, s.Save(New("/x/y/f.txt", now)))

	a, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "/x/y/f.txt", a.FilePath)
	assert.Equal(t, CommandDiffWithClipboard, a.Command)
	assert.True(t, a.Timestamp.Equal(now))

	require.NoError(t, s.Clear())
	a, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, a)

	// Clearing an already-empty slot is a no-op.
	require.NoError(t, s.Clear())
}

func TestSave_Overwrites(t *testing.T) {
	s := tempStore(t)
	now := time.Now()

	require.NoError(t, s.Save(New("/first.txt", now.Add(-time.Minute))))
	require.NoError(t, s.Save(New("/second.txt", now)))

	a, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "/second.txt", a.FilePath, "new record replaces old")
}

func TestLoad_InvalidRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong discriminator", `{"pendingDiff":{"timestamp":"2026-08-26T10:00:00Z","command":"somethingElse","filePath":"/f"}}`},
		{"missing file path", `{"pendingDiff":{"timestamp":"2026-08-26T10:00:00Z","command":"diffWithClipboard"}}`},
		{"zero timestamp", `{"pendingDiff":{"command":"diffWithClipboard","filePath":"/f"}}`},
		{"mistyped fields", `{"pendingDiff":{"timestamp":42,"command":"diffWithClipboard","filePath":"/f"}}`},
		{"slot not an object", `{"pendingDiff":"garbage"}`},
		{"file not json", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
			require.NoError(t, os.WriteFile(s.Path, []byte(tt.body), 0o644))

			a, err := s.Load()
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Nil(t, a)

			// The invalid slot can still be cleared.
			require.NoError(t, s.Clear())
			a, err = s.Load()
			require.NoError(t, err)
			assert.Nil(t, a)
		})
	}
}

func TestClear_PreservesOtherSlots(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path), 0o755))
	body := `{"pendingDiff":{"timestamp":"2026-08-26T10:00:00Z","command":"diffWithClipboard","filePath":"/f"},"other":{"k":1}}`
	require.NoError(t, os.WriteFile(s.Path, []byte(body), 0o644))

	require.NoError(t, s.Clear())

	data, err := os.ReadFile(s.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"other"`)
	assert.NotContains(t, string(data), "pendingDiff")
}

func TestStaleAt(t *testing.T) {
	now := time.Now()

	fresh := New("/f", now.Add(-14999*time.Millisecond))
	assert.False(t, fresh.StaleAt(now), "14999ms old record is live")

	stale := New("/f", now.Add(-15001*time.Millisecond))
	assert.True(t, stale.StaleAt(now), "15001ms old record is stale")

	boundary := New("/f", now.Add(-StaleAfter))
	assert.False(t, boundary.StaleAt(now), "exactly 15s old is still live")
}

func TestValid(t *testing.T) {
	now := time.Now()
	assert.True(t, New("/f", now).Valid())
	assert.False(t, (&Action{Timestamp: now, Command: "nope", FilePath: "/f"}).Valid())
	assert.False(t, (&Action{Timestamp: now, Command: CommandDiffWithClipboard}).Valid())
	assert.False(t, (&Action{Command: CommandDiffWithClipboard, FilePath: "/f"}).Valid())
	assert.False(t, (*Action)(nil).Valid())
}
