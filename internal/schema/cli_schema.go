// Package schema provides CLI and settings schema generation.
//
// This package generates machine-readable documentation for the CLI and the
// Playwright settings it reads, so editors, LLMs and other tools can drive
// pwrun without scraping help text.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// exclusiveAnnotation is where cobra records MarkFlagsMutuallyExclusive groups.
const exclusiveAnnotation = "cobra_annotation_mutually_exclusive"

// examplesHeading starts the examples block inside a command's Long text.
const examplesHeading = "EXAMPLES:"

// CLISchema represents the complete CLI schema.
type CLISchema struct {
	Name        string        `json:"name"`
	Version     string        `json:"version"`
	Description string        `json:"description"`
	Commands    []CommandInfo `json:"commands"`
	GlobalFlags []FlagInfo    `json:"global_flags"`
	Workflows   []Workflow    `json:"workflows"`
}

// CommandInfo represents a CLI command.
type CommandInfo struct {
	Path        string        `json:"path"`
	Short       string        `json:"short"`
	Long        string        `json:"long,omitempty"`
	Usage       string        `json:"usage"`
	Runnable    bool          `json:"runnable"`
	Examples    []string      `json:"examples,omitempty"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
}

// FlagInfo represents a CLI flag.
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`

	// ExclusiveWith lists flags that cannot be combined with this one.
	ExclusiveWith []string `json:"exclusive_with,omitempty"`
}

// Workflow represents a common CLI workflow.
type Workflow struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Steps       []string `json:"steps"`
}

// GetCLISchema generates the CLI schema from a root Cobra command.
//
// Parameters:
//   - rootCmd: The root Cobra command
//   - version: CLI version string
//
// Returns:
//   - *CLISchema: The generated CLI schema
func GetCLISchema(rootCmd *cobra.Command, version string) *CLISchema {
	return &CLISchema{
		Name:        rootCmd.Name(),
		Version:     version,
		Description: rootCmd.Short,
		Commands:    describeChildren(rootCmd),
		GlobalFlags: describeFlags(rootCmd.PersistentFlags()),
		Workflows:   getCommonWorkflows(),
	}
}

func describeChildren(parent *cobra.Command) []CommandInfo {
	var out []CommandInfo
	for _, c := range parent.Commands() {
		if c.Hidden || c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		out = append(out, describeCommand(c))
	}
	return out
}

func describeCommand(c *cobra.Command) CommandInfo {
	long, examples := splitExamples(c.Long)
	examples = append(examples, exampleLines(c.Example)...)

	// CommandPath includes the root name; paths are relative to it.
	path := c.CommandPath()
	if root := c.Root(); root != c {
		path = strings.TrimPrefix(path, root.Name()+" ")
	}

	return CommandInfo{
		Path:        path,
		Short:       c.Short,
		Long:        long,
		Usage:       c.UseLine(),
		Runnable:    c.Runnable(),
		Examples:    examples,
		Flags:       describeFlags(c.LocalNonPersistentFlags()),
		Subcommands: describeChildren(c),
	}
}

// splitExamples separates the EXAMPLES: block from a Long description.
func splitExamples(long string) (string, []string) {
	idx := strings.Index(long, examplesHeading)
	if idx == -1 {
		return strings.TrimSpace(long), nil
	}
	return strings.TrimSpace(long[:idx]), exampleLines(long[idx+len(examplesHeading):])
}

// exampleLines returns the non-empty, non-comment lines of text with trailing
// "# ..." comments removed.
func exampleLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.Index(line, "  #"); i != -1 {
			line = strings.TrimSpace(line[:i])
		}
		out = append(out, line)
	}
	return out
}

func describeFlags(flags *pflag.FlagSet) []FlagInfo {
	var out []FlagInfo
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		out = append(out, FlagInfo{
			Name:          f.Name,
			Shorthand:     f.Shorthand,
			Type:          f.Value.Type(),
			Default:       f.DefValue,
			Description:   f.Usage,
			ExclusiveWith: exclusiveWith(f),
		})
	})
	return out
}

func exclusiveWith(f *pflag.Flag) []string {
	seen := map[string]bool{}
	for _, group := range f.Annotations[exclusiveAnnotation] {
		for _, name := range strings.Fields(group) {
			if name != f.Name {
				seen[name] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// getCommonWorkflows returns common CLI workflows.
func getCommonWorkflows() []Workflow {
	return []Workflow{
		{
			Name:        "Run one spec",
			Description: "Send the test command to the reusable \"Playwright Tests\" session",
			Steps: []string{
				"pwrun test tests/login.spec.ts",
				"# Attach to see the output when using tmux:",
				"pwrun sessions list",
			},
		},
		{
			Name:        "Hunt a flaky test",
			Description: "Repeat each test several times; the prompt remembers the last count",
			Steps: []string{
				"pwrun repeat tests/checkout.spec.ts",
				"# Or without a prompt:",
				"pwrun test tests/checkout.spec.ts --repeat 10",
			},
		},
		{
			Name:        "Run a selection",
			Description: "Several files are filtered to .spec.ts and .test.ts",
			Steps: []string{
				"pwrun test tests/a.spec.ts tests/b.test.ts tests/helpers.ts",
			},
		},
		{
			Name:        "Record a new test",
			Description: "Set the codegen target once, then launch the recorder",
			Steps: []string{
				"pwrun config set codegenURL https://staging.example.com",
				"pwrun codegen",
			},
		},
		{
			Name:        "Use a different Playwright config",
			Description: "Pick a config file and project for every run",
			Steps: []string{
				"pwrun config set configFile e2e/playwright.ci.config.ts",
				"pwrun config set project chromium",
			},
		},
	}
}

// ToMarkdown converts the schema to Markdown documentation.
//
// Parameters:
//   - schema: The CLI schema to convert
//
// Returns:
//   - string: Markdown documentation
func ToMarkdown(schema *CLISchema) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s CLI Reference\n\n**Version:** %s\n\n%s\n\n", schema.Name, schema.Version, schema.Description)

	sb.WriteString("## Global Flags\n\n")
	writeFlagTable(&sb, schema.GlobalFlags)

	sb.WriteString("## Commands\n\n")
	for _, c := range schema.Commands {
		writeCommand(&sb, c, 3)
	}

	sb.WriteString("## Common Workflows\n\n")
	for _, w := range schema.Workflows {
		fmt.Fprintf(&sb, "### %s\n\n", w.Name)
		if w.Description != "" {
			fmt.Fprintf(&sb, "%s\n\n", w.Description)
		}
		writeCodeBlock(&sb, w.Steps)
	}
	return sb.String()
}

func writeCodeBlock(sb *strings.Builder, lines []string) {
	fmt.Fprintf(sb, "```bash\n%s\n```\n\n", strings.Join(lines, "\n"))
}

func writeFlagTable(sb *strings.Builder, flags []FlagInfo) {
	sb.WriteString("| Flag | Type | Default | Description |\n|------|------|---------|-------------|\n")
	for _, f := range flags {
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		desc := f.Description
		if len(f.ExclusiveWith) > 0 {
			desc += " (not with --" + strings.Join(f.ExclusiveWith, ", --") + ")"
		}
		fmt.Fprintf(sb, "| `%s` | %s | %s | %s |\n", name, f.Type, f.Default, desc)
	}
	sb.WriteString("\n")
}

func writeCommand(sb *strings.Builder, c CommandInfo, level int) {
	fmt.Fprintf(sb, "%s `%s`\n\n%s\n\n", strings.Repeat("#", level), c.Path, c.Short)
	if c.Long != "" && c.Long != c.Short {
		fmt.Fprintf(sb, "%s\n\n", c.Long)
	}
	if c.Runnable {
		fmt.Fprintf(sb, "**Usage:** `%s`\n\n", c.Usage)
	}
	if len(c.Flags) > 0 {
		sb.WriteString("**Flags:**\n\n")
		writeFlagTable(sb, c.Flags)
	}
	if len(c.Examples) > 0 {
		sb.WriteString("**Examples:**\n\n")
		writeCodeBlock(sb, c.Examples)
	}
	for _, sub := range c.Subcommands {
		writeCommand(sb, sub, level+1)
	}
}
