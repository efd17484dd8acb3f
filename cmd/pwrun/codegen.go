// Package main provides the codegen command.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/runner"
	"github.com/revyl/pwrun/internal/terminal"
	"github.com/revyl/pwrun/internal/ui"
)

var (
	codegenCopy   bool
	codegenDryRun bool
)

var codegenCmd = &cobra.Command{
	Use:   "codegen",
	Short: "Launch the Playwright recorder in the \"Playwright Codegen\" session",
	Long: `Launch npx playwright codegen, opening the configured codegenURL.

Set the target with:
  pwrun config set codegenURL https://example.com

EXAMPLES:
  pwrun codegen
  pwrun codegen --dry-run --copy`,
	Args: cobra.NoArgs,
	RunE: runCodegen,
}

func init() {
	codegenCmd.Flags().BoolVar(&codegenCopy, "copy", false, "Copy the command to the clipboard")
	codegenCmd.Flags().BoolVar(&codegenDryRun, "dry-run", false, "Print the command without running it")
}

func runCodegen(cmd *cobra.Command, args []string) error {
	asJSON := jsonOutput(cmd)
	if asJSON {
		ui.SetQuietMode(true)
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	var host terminal.Host
	if !codegenDryRun {
		host, err = ws.newHost(cmd, sessionMirror(asJSON))
		if err != nil {
			return err
		}
		if closer, ok := host.(*terminal.PTYHost); ok {
			defer closer.Close()
		}
	}

	r := ws.newRunner(host)
	var rec *runner.Recorder
	if asJSON {
		rec = &runner.Recorder{}
		r.Notify = rec
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := r.RunCodegen(ctx, codegenDryRun)
	if asJSON {
		if perr := printJSON(newTestOutput(res, rec, codegenDryRun, err)); perr != nil {
			return perr
		}
	}
	if err != nil {
		return reportedError{err}
	}

	if codegenDryRun && !asJSON {
		fmt.Println(res.Command)
	}
	if codegenCopy {
		copyCommand(res.Command)
	}
	if codegenDryRun {
		return nil
	}
	return finishSession(ctx, res.SessionHandle(), false)
}
