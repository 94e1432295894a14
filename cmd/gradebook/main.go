// Package main is the entry point for the gradebook CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/gradebook/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

const rootLong = `gradebook tracks students and their grades, derives averages and letter
grades, and keeps an undo history and an activity log for the session.`

// newRootCommand builds the command tree over the given streams.
func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:           "gradebook",
		Short:         "In-memory gradebook with undo and an activity log",
		Long:          rootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApplication(opts, in, out, errOut, "> ")
			if err != nil {
				return err
			}
			defer application.Shutdown()

			fmt.Fprintln(out, "gradebook "+version+" (type help for commands)")
			return application.RunREPL(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (.toml, .yaml)")
	flags.StringVar(&opts.EnvFile, "env-file", "", "Path to a .env file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "Reload the configuration file when it changes")

	root.AddCommand(
		newRunCommand(&opts, in, out, errOut),
		newVersionCommand(out),
	)
	return root
}

// newRunCommand constructs the `run` subcommand.
func newRunCommand(opts *app.Options, in io.Reader, out, errOut io.Writer) *cobra.Command {
	var interactive, showLog bool

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Execute a Lua script against a fresh gradebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := ""
			if interactive {
				prompt = "> "
			}
			application, err := newApplication(*opts, in, out, errOut, prompt)
			if err != nil {
				return err
			}
			defer application.Shutdown()

			if err := application.RunScript(cmd.Context(), args[0]); err != nil {
				return err
			}
			if showLog {
				if err := application.PrintLog(cmd.Context()); err != nil {
					return err
				}
			}
			if interactive {
				return application.RunREPL(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Start the REPL after the script finishes")
	cmd.Flags().BoolVar(&showLog, "log", false, "Print the recent activity log after the script finishes")
	return cmd
}

// newVersionCommand constructs the `version` subcommand.
func newVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(out, "gradebook %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

func newApplication(opts app.Options, in io.Reader, out, errOut io.Writer, prompt string) (*app.Application, error) {
	opts.Input = in
	opts.Output = out
	opts.ErrOutput = errOut
	opts.Prompt = prompt

	application, err := app.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return application, nil
}
