package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/ipc"
	"go.klb.dev/clipdiff/internal/message"
)

func newFocusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "focus [agent-id]",
		Short: "Notify an agent that its window gained focus",
		Long: `Tells an agent its window just came to the foreground. Wire this to your
window manager's or editor's focus event.

The agent records itself as the most recently focused window and re-checks
the pending slot: if a parked diff request targets a file this window owns,
it runs now. With a single agent running the id can be omitted.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(_ *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runFocus(v, id)
		},
	}

	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runFocus(v *viper.Viper, id string) error {
	setupLogging(v, "")

	reg := ipc.OpenRegistry(ipc.RuntimeDir())
	live, err := reg.Live()
	if err != nil {
		return err
	}

	var target *ipc.Entry
	switch {
	case id != "":
		for _, e := range live {
			if e.ID == id {
				target = e
				break
			}
		}
		if target == nil {
			return fmt.Errorf("no running agent with id %q", id)
		}
	case len(live) == 1:
		target = live[0]
	case len(live) == 0:
		return fmt.Errorf("no running agents")
	default:
		return fmt.Errorf("%d agents running, specify an id (see clipdiff status)", len(live))
	}

	reply, err := request(target.Socket, &message.Message{Type: message.TypeFocus})
	if err != nil {
		return err
	}
	return printReply(reply)
}
