package main

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/coordinator"
	"go.klb.dev/clipdiff/internal/ipc"
	"go.klb.dev/clipdiff/internal/message"
	"go.klb.dev/clipdiff/internal/wire"
	"go.klb.dev/clipdiff/internal/workspace"
)

// Settle delays before pending-action checks, giving the host's own
// window-focus machinery time to quiesce. Not correctness-critical; they only
// reduce spurious races.
const (
	startupSettle = 500 * time.Millisecond
	focusSettle   = 100 * time.Millisecond
)

func newAgentCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the per-window agent",
		Long: `Runs one window's agent: it owns the files under the given root folders and
serves diff requests for them.

The agent listens on a Unix socket under the runtime directory and registers
itself so "clipdiff open" can find the focused window. On start (after a short
settle delay) and on every focus notification it checks the shared pending
slot and, when it owns the recorded file, performs the parked diff.

An agent started with no --root behaves as a loose-files window and accepts
any path.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runAgent(v) },
	}

	f := cmd.Flags()
	f.StringSlice("root", nil, "root folder owned by this window (repeatable)")
	f.String("workspace", "", "workspace definition file open in this window")
	addDiffFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

type agent struct {
	win   *workspace.Window
	coord *coordinator.Coordinator
	reg   *ipc.Registry

	mu    sync.Mutex // guards entry.FocusedAt
	entry *ipc.Entry
}

func runAgent(v *viper.Viper) error {
	win := &workspace.Window{
		ID:            uuid.NewString()[:8],
		Roots:         v.GetStringSlice("root"),
		WorkspaceFile: v.GetString("workspace"),
	}
	if err := win.Normalize(); err != nil {
		return err
	}
	setupLogging(v, win.Label())

	coord, err := newCoordinator(v, win)
	if err != nil {
		return err
	}

	dir := ipc.RuntimeDir()
	ln, err := ipc.Listen(dir, win.ID)
	if err != nil {
		return err
	}

	now := time.Now()
	a := &agent{
		win:   win,
		coord: coord,
		reg:   ipc.OpenRegistry(dir),
		entry: &ipc.Entry{
			ID:            win.ID,
			PID:           os.Getpid(),
			Roots:         win.Roots,
			WorkspaceFile: win.WorkspaceFile,
			Socket:        ipc.SocketPath(dir, win.ID),
			StartedAt:     now,
			FocusedAt:     now,
		},
	}
	if err := a.reg.Put(a.entry); err != nil {
		_ = ln.Close()
		return err
	}

	slog.Info("agent started",
		"version", Version,
		"id", win.ID,
		"roots", win.Roots,
		"socket", a.entry.Socket,
	)

	// Activation-time check, once the window state has had time to settle.
	go func() {
		time.Sleep(startupSettle)
		a.resume("startup")
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sigCh
		slog.Info("shutting down", "signal", s)
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			break
		}
		go a.handleConn(conn)
	}

	if err := a.reg.Remove(win.ID); err != nil {
		slog.Warn("registry cleanup failed", "err", err)
	}
	_ = os.Remove(a.entry.Socket)
	return nil
}

func (a *agent) handleConn(conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	wc.SetReadDeadline(ipc.DialTimeout)
	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}

	switch msg.Type {
	case message.TypeDispatch:
		out, err := a.coord.Dispatch(msg.FilePath)
		a.reply(wc, out, err)

	case message.TypeFocus:
		a.onFocus(wc)

	case message.TypeStatus:
		a.mu.Lock()
		info := &message.AgentInfo{
			ID:            a.entry.ID,
			PID:           a.entry.PID,
			Window:        a.win.Label(),
			Roots:         a.win.Roots,
			WorkspaceFile: a.win.WorkspaceFile,
			StartedAt:     a.entry.StartedAt,
			FocusedAt:     a.entry.FocusedAt,
		}
		a.mu.Unlock()
		_ = wc.WriteMsg(&message.Message{Type: message.TypeStatusResponse, Agent: info})

	default:
		_ = wc.WriteMsg(&message.Message{
			Type:  message.TypeError,
			Error: "unknown message type " + string(msg.Type),
		})
	}
}

// onFocus marks this window as most recently focused and re-checks the
// pending slot.
func (a *agent) onFocus(wc *wire.Conn) {
	now := time.Now()
	a.mu.Lock()
	a.entry.FocusedAt = now
	a.mu.Unlock()
	if err := a.reg.Touch(a.win.ID, now); err != nil {
		slog.Warn("focus registry update failed", "err", err)
	}
	time.Sleep(focusSettle)
	out, err := a.coord.Resume()
	a.reply(wc, out, err)
}

// resume runs a Resume outside a request context (startup), logging instead
// of replying.
func (a *agent) resume(trigger string) {
	out, err := a.coord.Resume()
	if err != nil {
		if notice, ok := userNotice(err); ok {
			slog.Info(notice, "trigger", trigger)
			return
		}
		slog.Error("pending diff failed", "trigger", trigger, "err", err)
		return
	}
	slog.Debug("pending check done", "trigger", trigger, "outcome", out.String())
}

// reply reports a coordinator outcome to the requesting CLI. User-actionable
// conditions travel as notices, everything else as errors.
func (a *agent) reply(wc *wire.Conn, out coordinator.Outcome, err error) {
	if err != nil {
		if notice, ok := userNotice(err); ok {
			_ = wc.WriteMsg(&message.Message{
				Type:    message.TypeResult,
				Outcome: out.String(),
				Notice:  notice,
			})
			return
		}
		_ = wc.WriteMsg(&message.Message{Type: message.TypeError, Error: err.Error()})
		return
	}
	_ = wc.WriteMsg(&message.Message{Type: message.TypeResult, Outcome: out.String()})
}
