package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/objkit/config"
	"github.com/chazu/objkit/diag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "objkit %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built: %s\n", date)
			fmt.Fprintf(out, "  config format: %s\n", config.FormatVersion)
			fmt.Fprintf(out, "  snapshot format: %s\n", diag.FormatVersion)
		},
	}
}
