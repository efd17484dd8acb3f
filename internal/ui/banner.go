// Package ui provides the help text for the pwrun CLI.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// tagline is the product tagline.
const tagline = "Run Playwright tests and codegen in reusable terminal sessions"

// GetCondensedHelp returns a compact cheat-sheet shown when pwrun runs with
// no arguments.
func GetCondensedHelp() string {
	purple := TitleStyle
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	return fmt.Sprintf(`%s

%s
  %s     Run a spec file once
  %s    Run with a repeat-count prompt
  %s                Launch the recorder

%s
  %s       Show Playwright settings
  %s                   Scaffold .pwrun/config.yaml
  %s          List pwrun terminal sessions

%s
  %s                 Machine-readable CLI schema
  %s              Start MCP server for AI integration

%s
`,
		purple.Render("pwrun")+" - "+dim.Render(tagline),
		purple.Render("Run:"),
		purple.Render("pwrun test <file>"),
		purple.Render("pwrun repeat <file>"),
		purple.Render("pwrun codegen"),
		purple.Render("Configure:"),
		purple.Render("pwrun config list"),
		purple.Render("pwrun init"),
		purple.Render("pwrun sessions list"),
		purple.Render("AI/Tooling:"),
		purple.Render("pwrun schema"),
		purple.Render("pwrun mcp serve"),
		hint.Render(`Use "pwrun --help" for a full list of commands.`),
	)
}

// GetHelpText returns the long description used by `pwrun --help`.
func GetHelpText() string {
	purple := TitleStyle
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	return fmt.Sprintf(`%s

%s
  %s                 Run files (spec/test files when several)
  %s      Run each test N times
  %s                Ask for the repeat count, then run
  %s        Re-run when the files change
  %s                    Launch the recorder at codegenURL

%s
  %s             Settings from user and workspace settings.json
  %s  Update a user setting
  %s  Suggest config files for an editor

%s
  %s                  Start MCP server for AI agent integration
  %s                     Output machine-readable CLI schema`,
		dim.Render(tagline+"."),
		purple.Render("Run:"),
		purple.Render("pwrun test <files...>"),
		purple.Render("pwrun test <file> --repeat N"),
		purple.Render("pwrun repeat <files...>"),
		purple.Render("pwrun test <file> --watch"),
		purple.Render("pwrun codegen"),
		purple.Render("Configure:"),
		purple.Render("pwrun config list"),
		purple.Render("pwrun config set repeatEach 5"),
		purple.Render("pwrun complete --file ..."),
		purple.Render("AI/LLM:"),
		purple.Render("pwrun mcp serve"),
		purple.Render("pwrun schema"),
	)
}
