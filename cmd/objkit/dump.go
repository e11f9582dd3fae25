package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/objkit/diag"
)

var dumpOutput string

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump a diagnostic snapshot of the runtime",
		Long: `The dump command captures the state of the runtime: per-class
instance counters, active autorelease pools and pending releases.

With --output the snapshot is written as CBOR to the named file; otherwise
it is printed, as JSON when --json is given.

Example:
  objkit dump
  objkit dump --json
  objkit dump --output runtime.cbor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd)
		},
	}
	cmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "Write the snapshot as CBOR to this file")
	return cmd
}

func runDump(cmd *cobra.Command) error {
	snap := diag.Capture(nil)
	out := cmd.OutOrStdout()

	if dumpOutput != "" {
		data, err := diag.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := os.WriteFile(dumpOutput, data, 0644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		log.Infof("wrote %d byte snapshot to %s", len(data), dumpOutput)
		fmt.Fprintf(out, "%s\n", dumpOutput)
		return nil
	}

	if jsonOut {
		return printJSON(out, snap)
	}

	fmt.Fprintf(out, "session:  %s\n", snap.Session)
	fmt.Fprintf(out, "taken at: %s\n", snap.TakenAt.Format("2006-01-02 15:04:05.000 MST"))
	fmt.Fprintf(out, "classes:  %d\n", len(snap.Classes))
	fmt.Fprintf(out, "live:     %d\n", snap.Live)
	fmt.Fprintf(out, "pools:    %d active, %d pending releases\n", snap.ActivePools, snap.PendingAutoreleases)
	fmt.Fprintf(out, "weak:     %d targets\n", snap.WeakTargets)
	return nil
}
