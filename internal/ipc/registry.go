package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry describes one registered agent.
type Entry struct {
	ID            string    `json:"id"`
	PID           int       `json:"pid"`
	Roots         []string  `json:"roots,omitempty"`
	WorkspaceFile string    `json:"workspace_file,omitempty"`
	Socket        string    `json:"socket"`
	StartedAt     time.Time `json:"started_at"`
	FocusedAt     time.Time `json:"focused_at"`
}

// Registry stores agent entries as JSON files beside their sockets.
type Registry struct {
	Dir string

	// Probe reports whether an agent socket is live. Overridable in tests;
	// nil means a real dial.
	Probe func(socket string) bool
}

// OpenRegistry returns a registry rooted at dir.
func OpenRegistry(dir string) *Registry {
	return &Registry{Dir: dir, Probe: probe}
}

func (r *Registry) entryPath(id string) string {
	return filepath.Join(r.Dir, "agent-"+id+".json")
}

// Put writes (or rewrites) an agent's entry.
func (r *Registry) Put(e *Entry) error {
	if err := os.MkdirAll(r.Dir, 0o700); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	path := r.entryPath(e.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	return nil
}

// Remove deletes an agent's entry. Removing a missing entry succeeds.
func (r *Registry) Remove(id string) error {
	err := os.Remove(r.entryPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Touch updates an agent's focus time, marking it the most recently focused
// window.
func (r *Registry) Touch(id string, at time.Time) error {
	e, err := r.get(id)
	if err != nil {
		return err
	}
	e.FocusedAt = at
	return r.Put(e)
}

func (r *Registry) get(id string) (*Entry, error) {
	data, err := os.ReadFile(r.entryPath(id))
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return &e, nil
}

// Live returns the entries of all agents whose socket answers a dial.
// Unreadable or corrupt entries are skipped.
func (r *Registry) Live() ([]*Entry, error) {
	names, err := os.ReadDir(r.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}

	var out []*Entry
	for _, de := range names {
		name := de.Name()
		if !strings.HasPrefix(name, "agent-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, "agent-"), ".json")
		e, err := r.get(id)
		if err != nil {
			continue
		}
		if r.Probe != nil && !r.Probe(e.Socket) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Focused returns the live agent with the newest focus time: the "current
// window" a URI request should be routed to. Returns nil when no agent is
// live.
func (r *Registry) Focused() (*Entry, error) {
	live, err := r.Live()
	if err != nil {
		return nil, err
	}
	var best *Entry
	for _, e := range live {
		if best == nil || e.FocusedAt.After(best.FocusedAt) {
			best = e
		}
	}
	return best, nil
}
