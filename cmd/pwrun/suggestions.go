// Package main provides command suggestion functionality for the CLI.
//
// This file implements "did you mean" suggestions when users type commands
// in the wrong order (e.g., "pwrun list config" instead of "pwrun config list").
package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/ui"
)

// subcommandMap maps subcommand names to their parent commands.
//
// Example: "list" -> ["config", "sessions"] means "list" is a subcommand
// of both "config" and "sessions".
var subcommandMap = map[string][]string{
	"list":  {"config", "sessions"},
	"get":   {"config"},
	"set":   {"config"},
	"path":  {"config"},
	"serve": {"mcp"},
}

// suggestCorrectCommand checks if the user typed a subcommand at the wrong level
// and returns a suggestion if found.
//
// Parameters:
//   - unknownCmd: The command that was not recognized by Cobra
//   - allArgs: All command line arguments (excluding program name)
//   - rootCmd: The root command to search for valid parent commands
//
// Returns:
//   - string: A suggested command string with correct order, or empty if no suggestion found
//   - bool: True if a valid suggestion was found
//
// Example:
//
//	unknownCmd: "set"
//	allArgs: ["--debug", "set", "config", "project", "chromium"]
//	Returns: "pwrun --debug config set project chromium", true
func suggestCorrectCommand(unknownCmd string, allArgs []string, rootCmd *cobra.Command) (string, bool) {
	parentCmds, isSubcommand := subcommandMap[unknownCmd]
	if !isSubcommand {
		return "", false
	}

	unknownCmdIdx := -1
	for i, arg := range allArgs {
		if arg == unknownCmd {
			unknownCmdIdx = i
			break
		}
	}
	if unknownCmdIdx == -1 {
		return "", false
	}

	for i := unknownCmdIdx + 1; i < len(allArgs); i++ {
		arg := allArgs[i]
		if strings.HasPrefix(arg, "-") {
			continue
		}
		for _, parentCmd := range parentCmds {
			if arg != parentCmd || !hasCommand(rootCmd, parentCmd) {
				continue
			}

			// Flags before the unknown command, then parent and subcommand,
			// then everything else except the parent.
			parts := []string{rootCmd.Name()}
			parts = append(parts, allArgs[:unknownCmdIdx]...)
			parts = append(parts, parentCmd, unknownCmd)
			parts = append(parts, allArgs[unknownCmdIdx+1:i]...)
			parts = append(parts, allArgs[i+1:]...)
			return strings.Join(parts, " "), true
		}
	}

	return "", false
}

func hasCommand(root *cobra.Command, name string) bool {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// printCommandSuggestion prints a "did you mean" suggestion to the user.
//
// Parameters:
//   - suggestion: The suggested command string to display
func printCommandSuggestion(suggestion string) {
	ui.Println()
	ui.PrintInfo("Did you mean:")
	ui.PrintDim("  %s", suggestion)
	ui.Println()
}
