// Package main provides the sessions command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/config"
	"github.com/revyl/pwrun/internal/terminal"
	"github.com/revyl/pwrun/internal/ui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect terminal sessions created by pwrun",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pwrun tmux sessions",
	Long: `List the tmux sessions pwrun has created, with their state and the
command to attach to each.

pty sessions live inside a single pwrun process and are not listed.`,
	Args: cobra.NoArgs,
	RunE: runSessionsList,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
}

// sessionOutput is one session in --json output.
type sessionOutput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Exited bool   `json:"exited"`
	Attach string `json:"attach"`
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	backend, err := ws.backend(cmd)
	if err != nil {
		return err
	}
	if backend != config.BackendTmux {
		if jsonOutput(cmd) {
			return printJSON([]sessionOutput{})
		}
		ui.PrintInfo("The pty backend keeps no sessions between runs.")
		return nil
	}

	host := terminal.NewTmuxHost(terminal.TmuxOptions{Socket: ws.Project.Terminal.TmuxSocket})
	sessions, err := host.Owned()
	if err != nil {
		return fmt.Errorf("failed to list tmux sessions: %w", err)
	}

	if jsonOutput(cmd) {
		out := make([]sessionOutput, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, sessionOutput{ID: s.ID(), Name: s.Name(), Exited: s.Exited(), Attach: s.AttachHint()})
		}
		return printJSON(out)
	}

	if len(sessions) == 0 {
		ui.PrintInfo("No pwrun sessions running.")
		return nil
	}

	table := ui.NewTable("NAME", "STATUS", "ATTACH")
	for _, s := range sessions {
		status := "running"
		if s.Exited() {
			status = "exited"
		}
		table.AddRow(s.Name(), status, s.AttachHint())
	}
	table.Render()
	if os.Getenv("TMUX") != "" {
		ui.PrintDim("Inside tmux, pwrun switches to the session automatically.")
	}
	return nil
}
