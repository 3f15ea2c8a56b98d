package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/ipc"
	"go.klb.dev/clipdiff/internal/message"
	"go.klb.dev/clipdiff/internal/uri"
	"go.klb.dev/clipdiff/internal/workspace"
)

func newOpenCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "open <uri>",
		Short: "Handle a clipdiff:// URI",
		Long: `Handles an inbound custom-scheme URI, the entry point the OS URI handler is
registered to call:

  clipdiff open "clipdiff://klb.clipdiff/diff?path=%2Fx%2Fy%2Ff.txt"

The request is routed to the currently focused agent. If that window does not
own the file, the agent parks the request and asks the editor to focus the
owning window, which completes the diff on its next focus check. With no
agent running, the diff is performed directly.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runOpen(v, args[0]) },
	}

	addDiffFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runOpen(v *viper.Viper, raw string) error {
	setupLogging(v, "")

	req, err := uri.Parse(raw)
	if errors.Is(err, uri.ErrUnknownPath) {
		// Not ours to handle; log it and show the user nothing.
		slog.Info("ignoring unhandled uri", "uri", raw)
		return nil
	}
	if err != nil {
		return err
	}

	// Route to the focused window's agent.
	reg := ipc.OpenRegistry(ipc.RuntimeDir())
	if ent, err := reg.Focused(); err == nil && ent != nil {
		reply, err := request(ent.Socket, &message.Message{
			Type:     message.TypeDispatch,
			FilePath: req.FilePath,
		})
		if err == nil {
			slog.Debug("dispatched to agent", "agent", ent.ID, "path", req.FilePath)
			return printReply(reply)
		}
		slog.Warn("focused agent unreachable, dispatching inline", "agent", ent.ID, "err", err)
	}

	// No live agent: behave as a loose-files window and diff here.
	coord, err := newCoordinator(v, &workspace.Window{})
	if err != nil {
		return err
	}
	if _, err := coord.Dispatch(req.FilePath); err != nil {
		if notice, ok := userNotice(err); ok {
			slog.Info("diff skipped", "reason", err)
			printNotice(notice)
			return nil
		}
		return err
	}
	return nil
}
