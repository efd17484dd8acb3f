// Package main provides the init command.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/config"
	"github.com/revyl/pwrun/internal/ui"
)

var (
	initForce   bool
	initBackend string
	initYes     bool
)

// initCmd writes .pwrun/config.yaml in the workspace.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .pwrun/config.yaml for this workspace",
	Long: `Create .pwrun/config.yaml with the terminal backend and watch settings.

Playwright settings such as configFile and project are not stored here; use
"pwrun config set" for those.

EXAMPLES:
  pwrun init
  pwrun init --backend tmux
  pwrun init --force -y`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	backendValues  = []string{config.BackendAuto, config.BackendTmux, config.BackendPTY}
	backendChoices = []string{
		"auto - tmux when installed, otherwise pty",
		"tmux - sessions survive pwrun and can be attached",
		"pty  - sessions live inside the pwrun process",
	}
)

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendAuto, "Terminal backend: auto, tmux or pty")
	initCmd.Flags().BoolVarP(&initYes, "non-interactive", "y", false, "Do not prompt before overwriting")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Root().PersistentFlags().GetString("workspace")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root = cwd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}

	path := config.ProjectConfigPath(root)
	if _, err := os.Stat(path); err == nil {
		if !initForce {
			if initYes || jsonOutput(cmd) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			ok, err := ui.PromptConfirm(fmt.Sprintf("%s already exists. Overwrite?", path), false)
			if err != nil {
				return err
			}
			if !ok {
				ui.PrintInfo("Left existing configuration unchanged.")
				return nil
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	cfg := config.DefaultProjectConfig()
	cfg.Terminal.Backend = initBackend
	if !cmd.Flags().Changed("backend") && !initYes && !jsonOutput(cmd) && isatty.IsTerminal(os.Stdin.Fd()) {
		choice, err := ui.PromptSelect("Terminal backend for test and codegen sessions:", backendChoices)
		if err != nil {
			return err
		}
		cfg.Terminal.Backend = backendValues[choice]
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.WriteProjectConfig(path, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput(cmd) {
		return printJSON(map[string]string{"path": path, "backend": cfg.Terminal.Backend})
	}
	ui.PrintSuccess("Created %s", path)
	ui.Println()
	ui.PrintInfo("Next steps:")
	ui.PrintCommand("Point at your config", "pwrun config set configFile playwright.config.ts")
	ui.PrintCommand("Run a test", "pwrun test tests/example.spec.ts")
	return nil
}
