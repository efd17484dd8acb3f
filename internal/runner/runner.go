// Package runner wires settings, the command builders, the repeat prompt and
// terminal sessions into the test and codegen actions.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/revyl/pwrun/internal/command"
	"github.com/revyl/pwrun/internal/prompt"
	"github.com/revyl/pwrun/internal/settings"
	"github.com/revyl/pwrun/internal/terminal"
)

// Notification texts.
const (
	msgRunningTests     = "Attempting to run Playwright test(s): %s"
	msgRepeatCancelled  = "Repeat test run cancelled."
	msgCodegenNoURL     = "Playwright Codegen starting without a specific URL."
	msgRunningCodegen   = "Attempting to run Playwright Codegen: %s"
	msgNoTarget         = "No file or folder target for test execution."
	msgNoMatchingFiles  = "No .spec.ts or .test.ts files found in selection."
	msgSettingsNotSaved = "Could not save repeatEach setting: %v"
)

// Runner executes the test and codegen actions for one workspace.
type Runner struct {
	// Root is the workspace root used for relative paths.
	Root string

	// Store reads and persists settings. Settings are re-read on every action.
	Store *settings.Store

	// Sessions hands out terminal sessions.
	Sessions *terminal.Manager

	// Notify receives user-facing messages.
	Notify Notifier

	// Asker is used by the repeat prompt.
	Asker prompt.Asker

	// Lookup resolves environment variables for the recorder target.
	Lookup command.LookupFunc
}

// RunOptions modify a test run.
type RunOptions struct {
	// PromptRepeat asks for the repeat count before running.
	PromptRepeat bool

	// Repeat is used when PromptRepeat is false. The zero value adds no clause.
	Repeat command.RepeatCount

	// DryRun builds the command without sending it to a session.
	DryRun bool
}

// Result describes a dispatched command.
type Result struct {
	// Command is the exact text sent to the session.
	Command string `json:"command"`

	// Session is the display name of the session that received it.
	Session string `json:"session,omitempty"`

	// Repeat is the accepted prompt value, if the prompt ran.
	Repeat *int `json:"repeat,omitempty"`

	// Persisted reports the repeatEach write, if one was attempted.
	Persisted *settings.PersistResult `json:"-"`

	session terminal.Session
}

// SessionHandle returns the session the command was sent to.
func (r Result) SessionHandle() terminal.Session {
	return r.session
}

// UserMessage returns the notification text for an error from a run.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, command.ErrNoTarget):
		return msgNoTarget
	case errors.Is(err, command.ErrNoMatchingFiles):
		return msgNoMatchingFiles
	case errors.Is(err, prompt.ErrPromptCancelled):
		return msgRepeatCancelled
	}
	return err.Error()
}

func (r *Runner) notifier() Notifier {
	if r.Notify == nil {
		return UINotifier{}
	}
	return r.Notify
}

// fail reports err and returns it.
func (r *Runner) fail(err error) error {
	if errors.Is(err, prompt.ErrPromptCancelled) {
		r.notifier().Info(msgRepeatCancelled)
	} else {
		r.notifier().Error(UserMessage(err))
	}
	return err
}

// RunTests runs Playwright against a selection.
//
// Parameters:
//   - ctx: Cancels the repeat prompt
//   - sel: Primary path and selected paths
//   - opts: Repeat handling and dry-run
//
// Returns:
//   - Result: The command and session
//   - error: ErrNoTarget, ErrNoMatchingFiles, ErrPromptCancelled, or a settings or session failure
func (r *Runner) RunTests(ctx context.Context, sel command.Selection, opts RunOptions) (Result, error) {
	target, err := sel.Resolve()
	if err != nil {
		return Result{}, r.fail(err)
	}

	cfg, err := r.Store.Load()
	if err != nil {
		return Result{}, r.fail(err)
	}

	var res Result
	repeat := opts.Repeat
	if opts.PromptRepeat {
		if r.Asker == nil {
			return Result{}, r.fail(errors.New("no prompt available for the repeat count"))
		}
		n, err := prompt.PromptForRepeatCount(ctx, r.Asker, cfg.RepeatEach)
		if err != nil {
			return Result{}, r.fail(err)
		}
		res.Repeat = &n
		repeat = command.RepeatFromInt(n)

		if cfg.RepeatEach == nil || *cfg.RepeatEach != n {
			pr := r.Store.UpdateGlobal(settings.KeyRepeatEach, n)
			res.Persisted = &pr
			r.reportPersist(cfg, pr)
		}
	}

	line, err := command.BuildTestCommand(target, r.Root, cfg, repeat)
	if err != nil {
		return Result{}, r.fail(err)
	}
	res.Command = line

	if opts.DryRun {
		return res, nil
	}
	return r.dispatch(res, terminal.TestSessionName, fmt.Sprintf(msgRunningTests, line))
}

// reportPersist applies the persistence failure policy.
func (r *Runner) reportPersist(cfg settings.RunConfig, pr settings.PersistResult) {
	if pr.OK() {
		log.Debug("Persisted setting", "key", pr.Key, "path", pr.Path)
		return
	}
	if cfg.ReportSettingsErrors {
		r.notifier().Warn(fmt.Sprintf(msgSettingsNotSaved, pr.Err))
		return
	}
	log.Debug("Ignoring settings write failure", "key", pr.Key, "path", pr.Path, "error", pr.Err)
}

// RunCodegen launches the recorder at the configured target.
//
// Returns:
//   - Result: The command and session
//   - error: A settings or session failure
func (r *Runner) RunCodegen(ctx context.Context, dryRun bool) (Result, error) {
	cfg, err := r.Store.Load()
	if err != nil {
		return Result{}, r.fail(err)
	}

	line := command.BuildRecorderCommand(cfg, r.Lookup)
	res := Result{Command: line}
	if command.ResolveRecorderTarget(cfg, r.Lookup) == "" {
		r.notifier().Info(msgCodegenNoURL)
	}
	if dryRun {
		return res, nil
	}
	return r.dispatch(res, terminal.CodegenSessionName, fmt.Sprintf(msgRunningCodegen, line))
}

func (r *Runner) dispatch(res Result, name, notice string) (Result, error) {
	if r.Sessions == nil {
		return res, r.fail(errors.New("no terminal available"))
	}
	s, err := r.Sessions.GetOrCreate(name)
	if err != nil {
		return res, r.fail(fmt.Errorf("failed to open terminal session: %w", err))
	}
	if err := s.Show(); err != nil {
		log.Debug("Failed to show session", "name", name, "error", err)
	}
	if err := s.SendText(res.Command); err != nil {
		return res, r.fail(fmt.Errorf("failed to send command to %s: %w", name, err))
	}

	res.Session = s.Name()
	res.session = s
	r.notifier().Info(notice)
	return res, nil
}
