// Package main provides shared helpers for pwrun commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/config"
	"github.com/revyl/pwrun/internal/prompt"
	"github.com/revyl/pwrun/internal/runner"
	"github.com/revyl/pwrun/internal/settings"
	"github.com/revyl/pwrun/internal/terminal"
)

// reportedError marks an error the runner already showed to the user.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func errorReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// jsonOutput reports whether the global --json flag is set.
func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Root().PersistentFlags().GetBool("json")
	return v
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// workspace holds what every command resolves before doing anything.
type workspace struct {
	Root    string
	Store   *settings.Store
	Project *config.ProjectConfig
}

// loadWorkspace resolves the workspace root, settings store and project config.
//
// Parameters:
//   - cmd: The running command, for the --workspace flag
//
// Returns:
//   - *workspace: The resolved workspace
//   - error: If settings or the project config cannot be located or parsed
func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	root, _ := cmd.Root().PersistentFlags().GetString("workspace")
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		found, err := config.FindWorkspaceRoot(cwd)
		if err != nil {
			log.Debug("No workspace marker found, using current directory", "error", err)
			found = cwd
		}
		root = found
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}

	userPath, err := settings.DefaultUserPath()
	if err != nil {
		return nil, err
	}
	project, err := config.LoadProjectConfigOrDefault(root)
	if err != nil {
		return nil, err
	}

	log.Debug("Workspace resolved", "root", root, "user_settings", userPath)
	return &workspace{
		Root:    root,
		Store:   settings.NewStore(userPath, root),
		Project: project,
	}, nil
}

// backend returns the terminal backend, with --terminal taking priority.
func (w *workspace) backend(cmd *cobra.Command) (string, error) {
	b, _ := cmd.Root().PersistentFlags().GetString("terminal")
	if b == "" {
		b = w.Project.Terminal.Backend
	}
	switch b {
	case "", config.BackendAuto:
		if terminal.TmuxAvailable() {
			return config.BackendTmux, nil
		}
		return config.BackendPTY, nil
	case config.BackendTmux:
		if !terminal.TmuxAvailable() {
			return "", errors.New("tmux backend selected but tmux is not installed")
		}
		return b, nil
	case config.BackendPTY:
		return b, nil
	default:
		return "", fmt.Errorf("unknown terminal backend %q (supported: auto, tmux, pty)", b)
	}
}

// sessionMirror returns where pty session output is echoed. JSON output keeps
// stdout clean.
func sessionMirror(asJSON bool) io.Writer {
	if asJSON {
		return os.Stderr
	}
	return os.Stdout
}

// newHost creates the session host for the selected backend.
//
// Parameters:
//   - cmd: The running command, for the --terminal flag
//   - mirror: Receives pty session output (ignored for tmux)
//
// Returns:
//   - terminal.Host: A tmux or pty host
//   - error: Unknown backend, or tmux requested but missing
func (w *workspace) newHost(cmd *cobra.Command, mirror io.Writer) (terminal.Host, error) {
	b, err := w.backend(cmd)
	if err != nil {
		return nil, err
	}
	log.Debug("Using terminal backend", "backend", b)
	if b == config.BackendTmux {
		return terminal.NewTmuxHost(terminal.TmuxOptions{
			Socket:  w.Project.Terminal.TmuxSocket,
			WorkDir: w.Root,
		}), nil
	}
	return terminal.NewPTYHost(terminal.PTYOptions{WorkDir: w.Root, Mirror: mirror}), nil
}

// newRunner wires a runner for CLI use.
func (w *workspace) newRunner(host terminal.Host) *runner.Runner {
	r := &runner.Runner{
		Root:   w.Root,
		Store:  w.Store,
		Notify: runner.UINotifier{},
		Asker:  prompt.NewAsker(os.Stdin, os.Stderr),
		Lookup: os.LookupEnv,
	}
	if host != nil {
		r.Sessions = terminal.NewManager(host)
	}
	return r
}
