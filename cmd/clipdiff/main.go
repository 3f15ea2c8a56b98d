// clipdiff: diff files against the system clipboard, in the right window.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipdiff",
		Short: "Diff files against the system clipboard",
		Long: `clipdiff compares a file's content against the system clipboard and routes
the comparison to whichever editor window owns the file.

Run "clipdiff agent" once per editor window, with the window's root folders.
A clipdiff:// URI (via "clipdiff open") or the "clipdiff diff" command then
triggers the comparison; when the request lands in a window that does not own
the file, it is parked as a pending action and picked up by the owning window
on its next focus ("clipdiff focus" is the hook point for that event).

Config file search order (first found wins):
  /etc/clipdiff/clipdiff.toml
  $HOME/.config/clipdiff/clipdiff.toml
  path supplied via --config

All flags can be set via CLIPDIFF_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newAgentCmd(),
		newOpenCmd(),
		newDiffCmd(),
		newFocusCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipdiff %s\n", Version)
		},
	}
}
