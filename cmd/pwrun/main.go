// Package main provides the entry point for the pwrun CLI.
//
// pwrun sends Playwright test and codegen commands to reusable terminal
// sessions, remembering settings the way an editor extension would.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/ui"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "pwrun",
	Short:         "Run Playwright tests and codegen in reusable terminal sessions",
	Long:          ui.GetHelpText(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		if debug {
			log.SetLevel(log.DebugLevel)
			log.Debug("Debug logging enabled")
		}

		// Set quiet mode from global flag
		quiet, _ := cmd.Flags().GetBool("quiet")
		ui.SetQuietMode(quiet)
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(ui.GetCondensedHelp())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
//
// Unknown commands typed in the wrong order (e.g., "pwrun list config")
// get a "did you mean" suggestion.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		errStr := err.Error()
		if !errorReported(err) {
			ui.PrintError("%s", errStr)
		}

		// Error format: unknown command "list" for "pwrun"
		if start := strings.Index(errStr, `unknown command "`); start != -1 {
			start += len(`unknown command "`)
			if end := strings.Index(errStr[start:], `"`); end != -1 {
				unknownCmd := errStr[start : start+end]
				if suggestion, found := suggestCorrectCommand(unknownCmd, os.Args[1:], rootCmd); found {
					printCommandSuggestion(suggestion)
				}
			}
		}
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON (where supported)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().String("workspace", "", "Workspace root (default: nearest directory with .pwrun/, .vscode/settings.json or package.json)")
	rootCmd.PersistentFlags().String("terminal", "", "Terminal backend: auto, tmux or pty (default from .pwrun/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(repeatCmd)
	rootCmd.AddCommand(codegenCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(mcpCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput(cmd) {
			_ = printJSON(map[string]string{"version": version, "commit": commit, "date": date})
			return
		}
		ui.PrintInfo("Version: %s", version)
		ui.PrintInfo("Commit: %s", commit)
		ui.PrintInfo("Built: %s", date)
	},
}

func main() {
	Execute()
}
