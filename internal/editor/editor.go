// Package editor spawns the external editor CLI helper ("code", or
// "code.cmd" on Windows) for two capabilities the coordinator delegates:
// switching window focus to a file, and opening an editor diff tab.
//
// Both are fire-and-forget: the process is started detached with stdio
// discarded, and never waited on. Only the spawn itself can fail; there is
// no callback channel from the helper back to us.
package editor

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Helper invokes the external editor CLI.
type Helper struct {
	// Command overrides the helper binary. Empty means DefaultCommand().
	Command string
}

// DefaultCommand returns the platform-appropriate helper binary name.
func DefaultCommand() string {
	if runtime.GOOS == "windows" {
		return "code.cmd"
	}
	return "code"
}

func (h *Helper) command() string {
	if h.Command != "" {
		return h.Command
	}
	return DefaultCommand()
}

// FocusFile asks the editor to open (and thereby focus the window owning)
// path, positioned at line 1, column 1.
func (h *Helper) FocusFile(path string) error {
	return h.spawn("--goto", fmt.Sprintf("%s:1:1", path))
}

// OpenDiff opens the editor's diff tab comparing left against right.
func (h *Helper) OpenDiff(left, right string) error {
	return h.spawn("--diff", left, right)
}

// spawn starts the helper detached. The child is released immediately; its
// exit status is never observed.
func (h *Helper) spawn(args ...string) error {
	bin := h.command()
	cmd := exec.Command(bin, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("editor helper %q: %w (is it on your PATH?)", bin, err)
	}
	slog.Debug("editor helper spawned", "cmd", bin, "args", args, "pid", cmd.Process.Pid)
	if err := cmd.Process.Release(); err != nil {
		slog.Warn("editor helper release failed", "err", err)
	}
	return nil
}
