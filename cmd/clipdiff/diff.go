package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/workspace"
)

func newDiffCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "diff <file>",
		Short: "Diff a file against the clipboard, here and now",
		Long: `Compares the named file against the current clipboard text, the equivalent
of invoking "Diff With Clipboard" on an open editor document.

The file must be a saved, on-disk document; an unsaved buffer or any other
non-file target gets an informational message and no diff.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runDiff(v, args[0]) },
	}

	addDiffFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDiff(v *viper.Viper, path string) error {
	setupLogging(v, "")

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !workspace.IsRegularFile(abs) {
		printNotice(fmt.Sprintf("clipdiff works on saved files: %s is not a file on disk.", abs))
		return nil
	}

	// The command operates on the document in front of the user, so there is
	// no routing: a loose-files window owns everything and diffs in place.
	coord, err := newCoordinator(v, &workspace.Window{})
	if err != nil {
		return err
	}
	if _, err := coord.Dispatch(abs); err != nil {
		if notice, ok := userNotice(err); ok {
			printNotice(notice)
			return nil
		}
		return err
	}
	return nil
}
