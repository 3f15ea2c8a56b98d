package pending

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// slotKey is the well-known key the pending action occupies in the state file.
const slotKey = "pendingDiff"

// FileStore persists named JSON slots in a single state file. All agents on
// a host share one file; it is the only coordination channel between them.
// Writes are not transactional — the design accepts the narrow race between
// two windows reading the same record rather than introducing locking.
type FileStore struct {
	Path string
}

// DefaultStatePath returns the state file location under the user config
// directory, honouring the CLIPDIFF_STATE override.
func DefaultStatePath() (string, error) {
	if p := os.Getenv("CLIPDIFF_STATE"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("state path: %w", err)
	}
	return filepath.Join(dir, "clipdiff", "state.json"), nil
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) readSlots() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	slots := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &slots); err != nil {
		// A corrupt state file behaves as an invalid slot, not a hard error.
		return nil, ErrInvalid
	}
	return slots, nil
}

func (s *FileStore) writeSlots(slots map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	// Write-then-rename keeps a crashed writer from leaving a torn file.
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *FileStore) Load() (*Action, error) {
	slots, err := s.readSlots()
	if err != nil {
		return nil, err
	}
	raw, ok := slots[slotKey]
	if !ok {
		return nil, nil
	}
	var a Action
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, ErrInvalid
	}
	if !a.Valid() {
		return nil, ErrInvalid
	}
	return &a, nil
}

// Save implements Store.
func (s *FileStore) Save(a *Action) error {
	slots, err := s.readSlots()
	if err != nil {
		// Overwriting is the contract; a corrupt file is replaced outright.
		slots = map[string]json.RawMessage{}
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	slots[slotKey] = raw
	return s.writeSlots(slots)
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	slots, err := s.readSlots()
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return s.writeSlots(map[string]json.RawMessage{})
		}
		return err
	}
	if _, ok := slots[slotKey]; !ok {
		return nil
	}
	delete(slots, slotKey)
	return s.writeSlots(slots)
}
