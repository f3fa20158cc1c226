package main

import (
	"context"
	"fmt"
	"os"

	"github.com/CubeSugarZhang/webpack/pkg/cli"
	"github.com/CubeSugarZhang/webpack/pkg/validation"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile  string
	verbose  bool
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "webpack",
	Short: "Validate webpack configurations",
	Long: `Validate webpack configuration objects against the webpack options schema.

Every problem found is reported with the path of the offending value and
the shape the schema expects there:
  - missing and unknown properties, with the list of valid ones
  - values of the wrong type or outside an enumeration
  - union mismatches, with one detail line per alternative
  - path checks such as context being absolute

Configurations are read from YAML or JSON files. A custom schema document
can replace the built-in webpack options schema.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command and returns the process exit code.
// Validation failures have already been reported on stdout, so only other
// errors are printed.
func Execute() int {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && !validation.IsValidationError(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "tool configuration file (default webpack-validator.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
