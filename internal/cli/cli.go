// Package cli implements the plugintester command-line tool.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/output"
)

// Version is set at build time.
var Version = "dev"

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	return run(context.Background(), args, output.Default)
}

func run(ctx context.Context, args []string, w *output.Writer) int {
	root := NewRootCmd(w)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		w.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	return errors.ExitSuccess
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd(w *output.Writer) *cobra.Command {
	var quiet, debug bool
	root := &cobra.Command{
		Use:           "plugintester",
		Short:         "plugintester - inspect plugin test fixtures",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			w.SetQuiet(quiet)
			if debug {
				w.SetDebug(true)
			}
		},
	}
	root.SetOut(w.Out())
	root.SetErr(w.ErrOut())
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only results")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "print debug traces (same as "+output.DebugEnvVar+"=1)")
	root.AddCommand(NewListCmd(w))
	return root
}
