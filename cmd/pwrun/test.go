// Package main provides the test and repeat commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/command"
	"github.com/revyl/pwrun/internal/runner"
	"github.com/revyl/pwrun/internal/terminal"
	"github.com/revyl/pwrun/internal/ui"
	"github.com/revyl/pwrun/internal/watch"
)

var (
	testRepeat       int
	testPromptRepeat bool
	testWatch        bool
	testCopy         bool
	testDryRun       bool
	testSelected     []string
)

var testCmd = &cobra.Command{
	Use:   "test [files...]",
	Short: "Run Playwright tests in the \"Playwright Tests\" session",
	Long: `Run Playwright tests for a file, a folder or a selection of files.

A single argument is used as given. Two or more arguments are treated as a
multi-file selection and filtered to .spec.ts and .test.ts files.

EXAMPLES:
  pwrun test tests/login.spec.ts
  pwrun test tests/
  pwrun test tests/a.spec.ts tests/b.test.ts --repeat 5
  pwrun test tests/login.spec.ts --prompt-repeat
  pwrun test tests/ --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTests(cmd, args, testPromptRepeat)
	},
}

var repeatCmd = &cobra.Command{
	Use:   "repeat [files...]",
	Short: "Ask for a repeat count, then run Playwright tests",
	Long: `Ask for a repeat count, remember it in the user settings, then run the
tests with --repeat-each.

EXAMPLES:
  pwrun repeat tests/flaky.spec.ts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTests(cmd, args, true)
	},
}

func init() {
	for _, c := range []*cobra.Command{testCmd, repeatCmd} {
		c.Flags().BoolVar(&testWatch, "watch", false, "Re-run when the target files change")
		c.Flags().BoolVar(&testCopy, "copy", false, "Copy the command to the clipboard")
		c.Flags().BoolVar(&testDryRun, "dry-run", false, "Print the command without running it")
		c.Flags().StringArrayVar(&testSelected, "selected", nil, "Selected path (can be repeated); the argument becomes the primary path")
	}
	testCmd.Flags().IntVarP(&testRepeat, "repeat", "r", 0, "Repeat each test N times (adds --repeat-each when N > 1)")
	testCmd.Flags().BoolVarP(&testPromptRepeat, "prompt-repeat", "p", false, "Ask for the repeat count and remember it")
	testCmd.MarkFlagsMutuallyExclusive("repeat", "prompt-repeat")
}

// selectionFromArgs turns command-line paths into a selection. Paths are made
// absolute against the working directory.
//
// Parameters:
//   - args: Positional paths
//   - selected: Paths passed with --selected
//
// Returns:
//   - command.Selection: The selection to resolve
//   - error: If a path cannot be made absolute
func selectionFromArgs(args, selected []string) (command.Selection, error) {
	abs := func(paths []string) ([]string, error) {
		out := make([]string, 0, len(paths))
		for _, p := range paths {
			a, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("invalid path %q: %w", p, err)
			}
			out = append(out, a)
		}
		return out, nil
	}

	var sel command.Selection
	switch {
	case len(selected) > 0:
		paths, err := abs(selected)
		if err != nil {
			return sel, err
		}
		sel.Selected = paths
		if len(args) > 0 {
			primary, err := abs(args[:1])
			if err != nil {
				return sel, err
			}
			sel.Primary = primary[0]
		}
	case len(args) == 1:
		primary, err := abs(args)
		if err != nil {
			return sel, err
		}
		sel.Primary = primary[0]
	case len(args) > 1:
		paths, err := abs(args)
		if err != nil {
			return sel, err
		}
		sel.Selected = paths
	}
	return sel, nil
}

// watchPaths returns the paths a selection targets.
func watchPaths(sel command.Selection) []string {
	if len(sel.Selected) > 0 {
		return sel.Selected
	}
	if sel.Primary != "" {
		return []string{sel.Primary}
	}
	return nil
}

// testOutput is the --json result of test, repeat and codegen.
type testOutput struct {
	Success       bool             `json:"success"`
	Command       string           `json:"command,omitempty"`
	Session       string           `json:"session,omitempty"`
	Repeat        *int             `json:"repeat,omitempty"`
	DryRun        bool             `json:"dry_run,omitempty"`
	Notifications []runner.Message `json:"notifications,omitempty"`
	Error         string           `json:"error,omitempty"`
}

func newTestOutput(res runner.Result, rec *runner.Recorder, dryRun bool, err error) testOutput {
	out := testOutput{
		Success: err == nil,
		Command: res.Command,
		Session: res.Session,
		Repeat:  res.Repeat,
		DryRun:  dryRun,
	}
	if rec != nil {
		out.Notifications = rec.Messages()
	}
	if err != nil {
		out.Error = runner.UserMessage(err)
	}
	return out
}

func runTests(cmd *cobra.Command, args []string, promptRepeat bool) error {
	asJSON := jsonOutput(cmd)
	if asJSON {
		ui.SetQuietMode(true)
	}
	if asJSON && testWatch {
		return errors.New("--json cannot be combined with --watch")
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	sel, err := selectionFromArgs(args, testSelected)
	if err != nil {
		return err
	}

	var host terminal.Host
	if !testDryRun {
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

	opts := runner.RunOptions{PromptRepeat: promptRepeat, DryRun: testDryRun}
	if cmd.Flags().Changed("repeat") {
		opts.Repeat = command.RepeatFromInt(testRepeat)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := r.RunTests(ctx, sel, opts)
	if asJSON {
		if perr := printJSON(newTestOutput(res, rec, testDryRun, err)); perr != nil {
			return perr
		}
	}
	if err != nil {
		return reportedError{err}
	}

	if testDryRun && !asJSON {
		fmt.Println(res.Command)
	}
	if testCopy {
		copyCommand(res.Command)
	}
	if testDryRun {
		return nil
	}

	if !testWatch {
		return finishSession(ctx, res.SessionHandle(), false)
	}

	// Re-runs reuse the accepted repeat count without prompting again.
	if res.Repeat != nil {
		opts.Repeat = command.RepeatFromInt(*res.Repeat)
	}
	opts.PromptRepeat = false
	if err := finishSession(ctx, res.SessionHandle(), true); err != nil {
		return err
	}
	return watchAndRerun(ctx, ws.Project.Watch.Debounce(), sel, func() error {
		_, err := r.RunTests(ctx, sel, opts)
		return err
	})
}

// watchAndRerun calls rerun whenever the selection's files change, until ctx
// is cancelled. Failed re-runs are reported by the runner and do not stop the
// loop.
func watchAndRerun(ctx context.Context, debounce time.Duration, sel command.Selection, rerun func() error) error {
	paths := watchPaths(sel)
	if len(paths) == 0 {
		return errors.New("nothing to watch")
	}

	w, err := watch.New(paths, debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	ui.PrintDim("Watching %d path(s). Press Ctrl+C to stop.", len(paths))
	err = w.Run(ctx, func(changed []string) {
		log.Debug("Re-running tests", "changed", changed)
		if err := rerun(); err != nil {
			log.Debug("Re-run failed", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		ui.Println()
		ui.PrintInfo("Stopped watching.")
		return nil
	}
	return err
}

// copyCommand puts line on the system clipboard. Failures are warnings.
func copyCommand(line string) {
	if err := clipboard.WriteAll(line); err != nil {
		ui.PrintWarning("Could not copy to clipboard: %v", err)
		return
	}
	log.Debug("Copied command to clipboard")
	ui.PrintSuccess("Command copied to clipboard")
}
