package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/CubeSugarZhang/webpack/pkg/cli"
	"github.com/CubeSugarZhang/webpack/pkg/runner"

	"github.com/spf13/cobra"
)

// stdinArg selects standard input as the configuration source.
const stdinArg = "-"

var validateFlags struct {
	schema schemaFlags
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate [files...|-]",
	Short: "Validate webpack configuration files",
	Long: `Validate webpack configuration files against the schema.

Files may be YAML or JSON. A file holding several YAML documents, or
several files, are validated as an array of configurations. Pass "-" to
read one configuration from standard input.

The command exits with status 2 when a configuration is invalid.

Examples:
  # Validate a configuration
  webpack validate webpack.config.yaml

  # Validate client and server configurations together
  webpack validate client.yaml server.yaml

  # Use a custom schema document
  webpack validate --schema plugin-options.yaml options.yaml

  # JSON report for CI/CD
  webpack validate --format json webpack.config.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateConfigs,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags.schema.register(validateCmd)
	validateCmd.Flags().StringVarP(&validateFlags.format, "format", "f", "", "output format: text, json, csv (default from config)")
}

func validateConfigs(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	format, err := a.outputFormat(validateFlags.format)
	if err != nil {
		return err
	}

	v, source, err := a.loadValidator(&validateFlags.schema)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	r := a.newRunner(v, source)
	ctx := a.commandContext(cmd)

	var report *runner.Report
	if len(args) == 1 && args[0] == stdinArg {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read standard input: %w", readErr)
		}
		report, err = r.ValidateBytes(ctx, data, "<stdin>")
	} else {
		for _, arg := range args {
			if arg == stdinArg {
				return cli.NewConfigError("files", `"-" cannot be combined with file arguments`)
			}
		}
		report, err = r.ValidateFiles(ctx, args)
	}

	if report == nil {
		return err
	}
	if writeErr := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report); writeErr != nil {
		return errors.Join(err, writeErr)
	}
	return err
}
