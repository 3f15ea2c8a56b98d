// Package logging configures the global slog logger for clipdiff binaries.
//
// Agents label every record with their window context (workspace or first
// root folder name, or "NoWorkspace") so that interleaved logs from several
// windows stay attributable.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel converts a string to a slog.Level, defaulting to Info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// lazyFile opens its target append-only on first write, so that commands
// which never log (version, status) never create a log file.
type lazyFile struct {
	path string

	mu   sync.Mutex
	f    *os.File
	fail bool
}

func (l *lazyFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return len(p), nil
	}
	if l.f == nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			l.fail = true
			return len(p), nil
		}
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			l.fail = true
			return len(p), nil
		}
		l.f = f
	}
	return l.f.Write(p)
}

// Setup configures the global slog logger. Call once after flag/viper parsing.
//
// window is attached to every record; pass "" for commands with no window
// context. file, when non-empty, selects an append-only JSON log file
// (created lazily on first record) instead of stderr.
func Setup(format Format, level slog.Level, window, file string) {
	var h slog.Handler
	switch {
	case file != "":
		h = slog.NewJSONHandler(&lazyFile{path: file}, &slog.HandlerOptions{Level: level})
	case format == FormatText || (format == FormatAuto && IsTTY(os.Stderr)):
		h = tinter.NewHandler(os.Stderr, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	default:
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(h)
	if window != "" {
		logger = logger.With("window", window)
	}
	slog.SetDefault(logger)
}
