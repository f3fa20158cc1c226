package main

import (
	"fmt"
	"strings"

	"github.com/CubeSugarZhang/webpack/pkg/cli"
	"github.com/CubeSugarZhang/webpack/pkg/schema"
	"github.com/CubeSugarZhang/webpack/pkg/schema/parser"

	"github.com/spf13/cobra"
)

var describeFlags struct {
	schema schemaFlags
	format string
	meta   bool
}

var schemaCmd = &cobra.Command{
	Use:   "schema [property.path]",
	Short: "Describe the schema",
	Long: `Describe the schema, or the part of it at a property path.

Paths are dotted property names. A "[]" suffix steps into array items.

Examples:
  # Describe the whole webpack options schema
  webpack schema

  # Describe one option
  webpack schema output.filename

  # Describe the options of a rule
  webpack schema "module.rules[]"

  # Print the meta-schema schema documents are checked against
  webpack schema --meta`,
	Args: cobra.MaximumNArgs(1),
	RunE: describeSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	describeFlags.schema.register(schemaCmd)
	schemaCmd.Flags().StringVarP(&describeFlags.format, "format", "f", "text", "output format: text, json")
	schemaCmd.Flags().BoolVar(&describeFlags.meta, "meta", false, "print the schema document meta-schema (JSON Schema)")
}

// schemaDescription is the schema command result.
type schemaDescription struct {
	Path        string   `json:"path"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Properties  []string `json:"properties,omitempty"`
}

func (d schemaDescription) String() string {
	var b strings.Builder
	if d.Path != "" {
		b.WriteString(d.Path + ": ")
	}
	b.WriteString(d.Summary)
	if d.Description != "" {
		b.WriteString("\n-> " + d.Description)
	}
	if len(d.Properties) > 0 {
		b.WriteString("\nProperties:")
		for _, p := range d.Properties {
			b.WriteString("\n  " + p)
		}
	}
	return b.String()
}

func describeSchema(cmd *cobra.Command, args []string) error {
	if describeFlags.meta {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), parser.MetaSchemaJSON())
		return err
	}

	format, err := cli.ParseFormat(describeFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatCSV {
		return cli.NewConfigError("format", "the schema command supports text and json output")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	v, _, err := a.loadValidator(&describeFlags.schema)
	if err != nil {
		return cli.NewCommandError("schema", err)
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	node, ok := v.Schema().Lookup(path)
	if !ok {
		return cli.NewConfigError("path", fmt.Sprintf("schema has no property at %q", path))
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), describe(path, node))
}

func describe(path string, n *schema.Node) schemaDescription {
	d := schemaDescription{
		Path:        path,
		Summary:     n.Summary(),
		Description: n.Description,
	}
	if n.Kind == schema.KindObject {
		for _, p := range n.Properties {
			line := p.Name
			if p.Required {
				line += " (required)"
			}
			line += ": " + p.Schema.Summary()
			d.Properties = append(d.Properties, line)
		}
	}
	return d
}
