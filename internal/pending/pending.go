// Package pending persists the single pending-action record that hands a
// diff-with-clipboard request from the window that received it to the window
// that owns the target file.
//
// The record lives in one named slot of a JSON key-value state file shared
// by every agent on the host. At most one record exists at a time; writing
// overwrites, and the consumer deletes the record before acting on it so a
// duplicate focus event cannot re-trigger the same diff.
package pending

import (
	"errors"
	"time"
)

// CommandDiffWithClipboard is the only action discriminator. A record whose
// Command field holds anything else is structurally invalid.
const CommandDiffWithClipboard = "diffWithClipboard"

// StaleAfter is how old a record may grow before it is considered abandoned.
// A stale record is discarded unexecuted, even by the owning window.
const StaleAfter = 15 * time.Second

// ErrInvalid marks a record that is present but structurally unusable:
// wrong discriminator, missing file path, zero timestamp, or bad JSON.
var ErrInvalid = errors.New("pending: invalid record")

// Action is the persisted pending-action record.
type Action struct {
	Timestamp time.Time `json:"timestamp"`
	Command   string    `json:"command"`
	FilePath  string    `json:"filePath"`
}

// New returns a record for filePath stamped at now.
func New(filePath string, now time.Time) *Action {
	return &Action{
		Timestamp: now,
		Command:   CommandDiffWithClipboard,
		FilePath:  filePath,
	}
}

// Valid reports whether the record is structurally usable.
func (a *Action) Valid() bool {
	return a != nil &&
		a.Command == CommandDiffWithClipboard &&
		a.FilePath != "" &&
		!a.Timestamp.IsZero()
}

// StaleAt reports whether the record has expired as of now. The boundary is
// strict: a record exactly StaleAfter old is still live.
func (a *Action) StaleAt(now time.Time) bool {
	return now.Sub(a.Timestamp) > StaleAfter
}

// Store is the persistence surface the coordinator needs. The file-backed
// implementation lives in this package; tests substitute fakes.
type Store interface {
	// Load returns the current record, (nil, nil) when the slot is empty,
	// or (nil, ErrInvalid) when the slot holds something unusable.
	Load() (*Action, error)

	// Save writes a, overwriting any existing record.
	Save(a *Action) error

	// Clear empties the slot. Clearing an already-empty slot succeeds.
	Clear() error
}
