package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/clip"
	"go.klb.dev/clipdiff/internal/coordinator"
	"go.klb.dev/clipdiff/internal/diffview"
	"go.klb.dev/clipdiff/internal/editor"
	"go.klb.dev/clipdiff/internal/ipc"
	"go.klb.dev/clipdiff/internal/logging"
	"go.klb.dev/clipdiff/internal/message"
	"go.klb.dev/clipdiff/internal/pending"
	"go.klb.dev/clipdiff/internal/wire"
	"go.klb.dev/clipdiff/internal/workspace"
)

// emptyClipboardNotice is what the user sees instead of a diff view when the
// clipboard holds no text.
const emptyClipboardNotice = "The clipboard is empty; nothing to diff."

func newHelper(v *viper.Viper) *editor.Helper {
	return &editor.Helper{Command: v.GetString("editor")}
}

// newViewer selects the diff viewer: an in-terminal word diff when stdout is
// a TTY, the external editor's diff tab otherwise (or whatever --viewer says).
func newViewer(v *viper.Viper) diffview.Viewer {
	switch v.GetString("viewer") {
	case "terminal":
		return &diffview.Terminal{Out: os.Stdout, Color: logging.IsTTY(os.Stdout)}
	case "editor":
		return &diffview.Editor{Helper: newHelper(v)}
	default:
		if logging.IsTTY(os.Stdout) {
			return &diffview.Terminal{Out: os.Stdout, Color: true}
		}
		return &diffview.Editor{Helper: newHelper(v)}
	}
}

func openStore(v *viper.Viper) (*pending.FileStore, error) {
	path := v.GetString("state")
	if path == "" {
		var err error
		path, err = pending.DefaultStatePath()
		if err != nil {
			return nil, err
		}
	}
	return pending.NewFileStore(path), nil
}

// newCoordinator assembles a coordinator for win from the command's config.
func newCoordinator(v *viper.Viper, win *workspace.Window) (*coordinator.Coordinator, error) {
	store, err := openStore(v)
	if err != nil {
		return nil, err
	}
	return coordinator.New(win, store, clip.System(), newViewer(v), newHelper(v)), nil
}

// request performs one request/reply exchange with an agent socket.
func request(socket string, msg *message.Message) (*message.Message, error) {
	conn, err := ipc.Dial(socket)
	if err != nil {
		return nil, fmt.Errorf("dial agent: %w", err)
	}
	wc := wire.New(conn)
	defer wc.Close()

	if err := wc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	wc.SetReadDeadline(ipc.DialTimeout)
	reply, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("reply: %w", err)
	}
	return reply, nil
}

// printReply turns an agent's reply into CLI output: notices go to stdout,
// errors become the command's error.
func printReply(reply *message.Message) error {
	switch reply.Type {
	case message.TypeError:
		return errors.New(reply.Error)
	case message.TypeResult:
		if reply.Notice != "" {
			printNotice(reply.Notice)
		}
		return nil
	default:
		return fmt.Errorf("unexpected reply %q", reply.Type)
	}
}

// printNotice shows a user-actionable informational message.
func printNotice(notice string) {
	fmt.Println(notice)
}

// userNotice translates a coordinator error into the informational message
// shown for user-actionable conditions, or returns ok=false for hard errors.
func userNotice(err error) (string, bool) {
	if errors.Is(err, coordinator.ErrEmptyClipboard) {
		return emptyClipboardNotice, true
	}
	return "", false
}
