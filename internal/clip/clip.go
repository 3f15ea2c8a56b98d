// Package clip provides read access to the system clipboard via
// golang.design/x/clipboard, with a headless fallback for machines without a
// display environment (containers, CI, SSH sessions without forwarding).
package clip

import (
	"errors"
	"log/slog"
	"sync"

	"golang.design/x/clipboard"
)

// ErrUnavailable is returned by reads when no clipboard backend could be
// initialised for this environment.
var ErrUnavailable = errors.New("clipboard unavailable")

// Reader is the capability the diff path needs.
type Reader interface {
	// ReadText returns the current clipboard text. An empty string with a
	// nil error means the clipboard holds no text.
	ReadText() (string, error)
}

// Func adapts a function to the Reader interface; used in tests and by the
// virtual document provider.
type Func func() (string, error)

func (f Func) ReadText() (string, error) { return f() }

var (
	initOnce sync.Once
	initErr  error
)

// System returns the system clipboard reader. clipboard.Init is called on
// first use rather than at package load so that sub-commands which never
// touch the clipboard (status, version) don't trigger the display probe.
func System() Reader {
	initOnce.Do(func() {
		initErr = clipboard.Init()
		if initErr != nil {
			slog.Warn("clipboard unavailable, running headless", "err", initErr)
		}
	})
	if initErr != nil {
		return Func(func() (string, error) { return "", ErrUnavailable })
	}
	return systemReader{}
}

type systemReader struct{}

func (systemReader) ReadText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}
