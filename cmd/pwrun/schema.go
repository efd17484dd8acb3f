// Package main provides the schema command for CLI introspection.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/schema"
)

var schemaFormat string

// schemaCmd outputs CLI and settings schema for tooling integration.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Output CLI and settings schema for tooling integration",
	Long: `Output a machine-readable schema of all CLI commands and settings.

FORMATS:
  json     - Commands, flags, workflows and the settings schema (default)
  markdown - Markdown documentation suitable for docs sites

The settings schema has the same shape as an editor extension's
contributes.configuration block.

EXAMPLES:
  pwrun schema                    # JSON to stdout
  pwrun schema --format markdown  # Markdown docs`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "json", "Output format: json, markdown")
}

// runSchema generates and outputs the schema.
//
// Parameters:
//   - cmd: The cobra command being executed
//   - args: Command line arguments (unused)
//
// Returns:
//   - error: Any error that occurred
func runSchema(cmd *cobra.Command, args []string) error {
	cliSchema := schema.GetCLISchema(cmd.Root(), version)

	switch schemaFormat {
	case "json":
		return printJSON(map[string]interface{}{
			"cli_schema":      cliSchema,
			"settings_schema": schema.GetSettingsSchema(),
		})

	case "markdown":
		fmt.Println(schema.ToMarkdown(cliSchema))
		fmt.Println("---")
		fmt.Println()
		fmt.Println(schema.SettingsMarkdown())

	default:
		return fmt.Errorf("unknown format '%s': must be json or markdown", schemaFormat)
	}
	return nil
}
