// Command ember is the host driver for the Ember runtime core (spec §6
// "Host driver"): it stands up an arena, a module, and a fiber, and drives
// the machine to completion or error. The command surface itself
// (run/repl/disasm, flags, logging) is ambient host tooling layered on
// top of a core that has none of its own.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ember/gc"
	"ember/internal/config"
	"ember/internal/hostio"
)

var (
	verbose    bool
	configPath string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut *os.File) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ember",
		Short:         "ember runs and inspects compiled Ember bytecode chunks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level diagnostics")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ember.yaml", "path to the host config document (missing file uses defaults)")
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.AddCommand(newRunCmd(out, errOut))
	rootCmd.AddCommand(newReplCmd(out, errOut))
	rootCmd.AddCommand(newDisasmCmd(out, errOut))
	return rootCmd
}

func newRunCmd(out, errOut *os.File) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "build and run the built-in demo chunk",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := runDemo(out, log, cfg); err != nil {
				fmt.Fprintf(errOut, "ember: %v\n", err)
				return err
			}
			return nil
		},
	}
}

func newReplCmd(out, errOut *os.File) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start an interactive arithmetic REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runREPL(os.Stdin, out, log, cfg)
		},
	}
}

func newDisasmCmd(out, errOut *os.File) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm",
		Short: "disassemble the built-in demo chunk",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := gc.NewArena()
			_, mod, _ := buildDemo(a)
			for _, id := range mod.Functions() {
				fn, err := mod.Function(id)
				if err != nil {
					return err
				}
				if err := disassemble(out, fn); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func logger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return hostio.NewLogger(level)
}
