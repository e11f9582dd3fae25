package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/objkit/collection"
	"github.com/chazu/objkit/config"
	"github.com/chazu/objkit/rt"
	"github.com/chazu/objkit/value"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOut    bool

	cfg     *config.Config
	monitor *rt.Monitor
)

var log = commonlog.GetLogger("objkit.cli")

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objkit",
		Short: "Inspect and exercise the objkit object runtime",
		Long: `objkit reports on the classes registered with the object runtime,
stress-tests reference counting and autorelease pools across goroutines,
and dumps diagnostic snapshots of runtime state.

Settings are read from objkit.toml, found by walking up from the current
directory, or from the file named by --config.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if monitor != nil {
				monitor.Stop()
				monitor = nil
			}
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to objkit.toml")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")

	cmd.AddCommand(newClassesCmd(), newStressCmd(), newDumpCmd(), newVersionCmd())
	return cmd
}

// setup loads the configuration and applies it before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return err
	}
	if verbose {
		cfg.Log.Verbosity = 2
	}

	monitor, err = cfg.Apply()
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		log.Debugf("loaded configuration from %s", cfg.Path)
	}
	registerBuiltins()
	return nil
}

// registerBuiltins makes the value and collection classes visible in the
// class table before anything has instantiated them.
func registerBuiltins() {
	for _, id := range []rt.RuntimeID{
		value.StringClassID(),
		value.NumberClassID(),
		value.DataClassID(),
		collection.ArrayClassID(),
		collection.DictionaryClassID(),
		collection.SetClassID(),
		collection.IndexSetClassID(),
	} {
		log.Debugf("builtin class %s has id %d", rt.Lookup(id).Name, id)
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON outputs data as indented JSON
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
