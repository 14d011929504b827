// Package cli implements the dbn command line: filtering a dynamic model
// against an observation stream, static marginals, and model generation.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Invoked with two arguments it
// filters a dynamic model; subcommands cover the other tasks.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	filterOpts := &FilterOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "dbn <model> <evidence>",
		Short: "Exact inference for discrete dynamic Bayesian networks",
		Long: `dbn filters a dynamic Bayesian network (DBAYES) against a stream of
observations and prints the belief over the state variables after every step.

Methods (-m, any combination of digits):
  1  unrolled network, full elimination at every step (reference)
  2  interface algorithm over dense tables
  3  interface algorithm over sparse tables

Example:
  dbn circuit.duai circuit.duai.evid -m 23 -v
  dbn marginal network.uai --query 0,3
  dbn gen circuit circuit --inputs 5 --gates 20 --health 5`,
		Args:          filterArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(filterOpts, args[0], args[1], cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug records on stderr)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Filter flags
	cmd.Flags().StringVarP(&filterOpts.Methods, "method", "m", "2", "filtering methods to run, e.g. 2 or 123")
	cmd.Flags().IntSliceVar(&filterOpts.State, "state", nil, "state variable ids to report (default: from the evidence file)")

	// Add subcommands
	cmd.AddCommand(NewMarginalCommand(opts))
	cmd.AddCommand(NewGenCommand(opts))

	return cmd
}

// Execute runs the command line with the process arguments and returns the
// exit code.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command line with explicit arguments and streams. With
// --format json a failure is reported as an error envelope on stdout;
// otherwise as a "dbn: " line on stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		// The format flag keeps its default when parsing stopped before it.
		if format, _ := cmd.PersistentFlags().GetString("format"); format == "json" {
			out := &OutputFormatter{Format: format, Writer: stdout}
			if werr := out.Error(err); werr == nil {
				return GetExitCode(err)
			}
		}
		fmt.Fprintf(stderr, "dbn: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
