package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/objkit/rt"
)

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List registered classes",
		Long: `The classes command lists every class registered with the runtime,
with its runtime id, the behaviour its descriptor supplies, and how many
instances are alive.

Example:
  objkit classes
  objkit classes --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClasses(cmd)
		},
	}
}

func runClasses(cmd *cobra.Command) error {
	stats := rt.Default().Stats()
	if jsonOut {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCLASS\tLIVE\tSLOTS")
	for _, s := range stats {
		slots := strings.Join(s.Capabilities, ",")
		if slots == "" {
			slots = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", s.ID, s.Name, s.Live, slots)
	}
	return w.Flush()
}
