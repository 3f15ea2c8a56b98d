package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/ipc"
	"go.klb.dev/clipdiff/internal/pending"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show running agents and the pending slot",
		Long: `Lists the registered agents (windows) whose sockets still answer, and the
content of the shared pending-action slot.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	cmd.Flags().String("state", "", "pending-action state file (default: user config dir)")
	addConfigFlag(cmd)

	return cmd
}

// statusReport is the JSON shape of "clipdiff status --json".
type statusReport struct {
	Agents  []*ipc.Entry    `json:"agents"`
	Pending *pending.Action `json:"pending,omitempty"`
	Slot    string          `json:"slot"` // empty | pending | stale | invalid
}

func runStatus(v *viper.Viper) error {
	reg := ipc.OpenRegistry(ipc.RuntimeDir())
	live, err := reg.Live()
	if err != nil {
		return err
	}

	store, err := openStore(v)
	if err != nil {
		return err
	}

	report := statusReport{Agents: live, Slot: "empty"}
	a, err := store.Load()
	switch {
	case errors.Is(err, pending.ErrInvalid):
		report.Slot = "invalid"
	case err != nil:
		return err
	case a != nil:
		report.Pending = a
		report.Slot = "pending"
		if a.StaleAt(time.Now()) {
			report.Slot = "stale"
		}
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	printStatus(report)
	return nil
}

func printStatus(report statusReport) {
	if len(report.Agents) == 0 {
		fmt.Println("No agents running.")
	} else {
		tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "ID\tPID\tROOTS\tSTARTED\tFOCUSED\n")
		_, _ = fmt.Fprintf(tw, "--\t---\t-----\t-------\t-------\n")
		for _, e := range report.Agents {
			roots := "(loose files)"
			if len(e.Roots) > 0 {
				roots = strings.Join(e.Roots, ",")
			} else if e.WorkspaceFile != "" {
				roots = e.WorkspaceFile
			}
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
				e.ID, e.PID, roots, fmtAge(e.StartedAt), fmtAge(e.FocusedAt))
		}
		_ = tw.Flush()
	}

	fmt.Println()
	switch report.Slot {
	case "empty":
		fmt.Println("Pending slot: empty")
	case "invalid":
		fmt.Println("Pending slot: invalid record (will be discarded on next check)")
	case "stale":
		fmt.Printf("Pending slot: %s (stale, %s old, will be discarded)\n",
			report.Pending.FilePath, time.Since(report.Pending.Timestamp).Round(time.Millisecond))
	default:
		fmt.Printf("Pending slot: %s (%s old)\n",
			report.Pending.FilePath, time.Since(report.Pending.Timestamp).Round(time.Millisecond))
	}
}

func fmtAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}
