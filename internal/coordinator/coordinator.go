// Package coordinator routes diff-with-clipboard requests to the window that
// owns the target file.
//
// A request arriving in the owning window is served immediately. A request
// arriving anywhere else is handed off: a pending-action record is persisted
// and an external focus switch is requested, fire-and-forget. Every window
// re-checks the record when it gains focus (and once shortly after start);
// the owner consumes it, everyone else leaves it alone, and a record that
// sits unconsumed past its staleness threshold is discarded unexecuted.
package coordinator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/clipdiff/internal/clip"
	"go.klb.dev/clipdiff/internal/diffview"
	"go.klb.dev/clipdiff/internal/pending"
	"go.klb.dev/clipdiff/internal/workspace"
)

// ErrEmptyClipboard is returned when a diff is requested while the clipboard
// holds no text. Surfaced to the user as an informational message.
var ErrEmptyClipboard = errors.New("clipboard is empty")

// FocusSwitcher requests that another window take the foreground on a file.
// The request is fire-and-forget; only the spawn error is observable.
type FocusSwitcher interface {
	FocusFile(path string) error
}

// Outcome describes how a dispatch or resume call was routed.
type Outcome int

const (
	// OutcomeDiffed means the diff executed (or was attempted) in this window.
	OutcomeDiffed Outcome = iota
	// OutcomeHandedOff means a pending record was written for another window.
	OutcomeHandedOff
	// OutcomeNoPending means resume found no record.
	OutcomeNoPending
	// OutcomeInvalid means resume discarded a malformed record.
	OutcomeInvalid
	// OutcomeStale means resume discarded an expired record.
	OutcomeStale
	// OutcomeNotOwner means resume left the record for the owning window.
	OutcomeNotOwner
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDiffed:
		return "diffed"
	case OutcomeHandedOff:
		return "handed-off"
	case OutcomeNoPending:
		return "no-pending"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeStale:
		return "stale"
	case OutcomeNotOwner:
		return "not-owner"
	default:
		return "unknown"
	}
}

// Coordinator decides where a diff request runs and completes handoffs.
type Coordinator struct {
	win   *workspace.Window
	store pending.Store
	clip  clip.Reader
	view  diffview.Viewer
	focus FocusSwitcher

	now func() time.Time
	log *slog.Logger
}

// New wires a coordinator for win. All collaborators are required.
func New(win *workspace.Window, store pending.Store, reader clip.Reader,
	view diffview.Viewer, focus FocusSwitcher) *Coordinator {
	return &Coordinator{
		win:   win,
		store: store,
		clip:  reader,
		view:  view,
		focus: focus,
		now:   time.Now,
		log:   slog.Default(),
	}
}

// WithClock substitutes the time source. Tests only.
func (c *Coordinator) WithClock(now func() time.Time) *Coordinator {
	c.now = now
	return c
}

// WithLogger substitutes the logger.
func (c *Coordinator) WithLogger(log *slog.Logger) *Coordinator {
	c.log = log
	return c
}

// Dispatch handles a diff request for filePath arriving in this window.
//
// If this window owns the file the diff runs here, immediately, and nothing
// is persisted. Otherwise a pending record is written (overwriting any prior
// one) and the external focus switch is requested. A failed spawn clears the
// just-written record best-effort and is returned for the user to see; the
// returned Outcome always names the route that was attempted.
func (c *Coordinator) Dispatch(filePath string) (Outcome, error) {
	if c.win.Owns(filePath) {
		c.log.Debug("dispatch: owned, diffing here", "path", filePath)
		return OutcomeDiffed, c.performDiff(filePath)
	}

	a := pending.New(filePath, c.now())
	if err := c.store.Save(a); err != nil {
		// Without the record the owning window would never learn about the
		// request, so this one is surfaced rather than swallowed.
		return OutcomeHandedOff, fmt.Errorf("persist pending action: %w", err)
	}
	c.log.Debug("dispatch: handed off", "path", filePath)

	if err := c.focus.FocusFile(filePath); err != nil {
		if cerr := c.store.Clear(); cerr != nil {
			c.log.Warn("pending action cleanup failed after spawn error", "err", cerr)
		}
		return OutcomeHandedOff, fmt.Errorf("focus switch: %w", err)
	}
	return OutcomeHandedOff, nil
}

// Resume consumes the pending record if this window owns it. Called on every
// focus-gain and once shortly after start.
//
// Storage failures are soft: a read error behaves as "no pending action", a
// failed discard is logged, and a failed pre-diff clear does not stop the
// diff (completing the user's request wins over strict cleanup).
func (c *Coordinator) Resume() (Outcome, error) {
	a, err := c.store.Load()
	if err != nil {
		if errors.Is(err, pending.ErrInvalid) {
			c.discard("invalid")
			return OutcomeInvalid, nil
		}
		c.log.Warn("pending action read failed", "err", err)
		return OutcomeNoPending, nil
	}
	if a == nil {
		return OutcomeNoPending, nil
	}

	if a.StaleAt(c.now()) {
		c.log.Info("pending action expired", "path", a.FilePath, "age", c.now().Sub(a.Timestamp))
		c.discard("stale")
		return OutcomeStale, nil
	}

	if !c.win.Owns(a.FilePath) {
		// Leave the record for whichever window focuses next.
		c.log.Debug("pending action not ours", "path", a.FilePath)
		return OutcomeNotOwner, nil
	}

	// Clear before acting so a duplicate focus event cannot replay the diff.
	if err := c.store.Clear(); err != nil {
		c.log.Warn("pending action clear failed, diffing anyway", "err", err)
	}
	c.log.Info("resuming pending diff", "path", a.FilePath)
	return OutcomeDiffed, c.performDiff(a.FilePath)
}

// performDiff reads the clipboard and opens the diff view for filePath.
// Both failure modes are user-visible.
func (c *Coordinator) performDiff(filePath string) error {
	text, err := c.clip.ReadText()
	if err != nil {
		return fmt.Errorf("clipboard read: %w", err)
	}
	if text == "" {
		return ErrEmptyClipboard
	}

	doc := diffview.NewClipboardDocument(filePath, c.clip)
	if err := c.view.ShowDiff(doc, filePath); err != nil {
		return fmt.Errorf("diff view: %w", err)
	}
	return nil
}

func (c *Coordinator) discard(reason string) {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("pending action discard failed", "reason", reason, "err", err)
	}
}
