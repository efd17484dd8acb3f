// Package main provides session handling shared by the test and codegen commands.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/revyl/pwrun/internal/terminal"
	"github.com/revyl/pwrun/internal/ui"
)

// finishSession hands the session that received a command back to the user.
//
// tmux sessions outlive pwrun, so only an attach hint is printed. pty sessions
// die with the process: an interactive stdin is attached, otherwise the shell
// is told to exit once the command finishes and pwrun waits for it.
//
// Parameters:
//   - ctx: Cancels an attach or wait
//   - s: The session returned by the runner
//   - detach: Leave pty sessions running (used by --watch)
func finishSession(ctx context.Context, s terminal.Session, detach bool) error {
	switch sess := s.(type) {
	case *terminal.TmuxSession:
		if os.Getenv("TMUX") == "" {
			ui.PrintDim("Attach with: %s", sess.AttachHint())
		}
		return nil

	case *terminal.PTYSession:
		if detach {
			return nil
		}
		if isatty.IsTerminal(os.Stdin.Fd()) && !ui.IsQuietMode() {
			ui.PrintDim("Attached to %q. Type exit to return.", sess.Name())
			err := sess.Attach(ctx, os.Stdin, os.Stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}
		if err := sess.SendText("exit"); err != nil {
			log.Debug("Failed to send exit", "error", err)
		}
		select {
		case <-sess.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := sess.Wait(); err != nil {
			log.Debug("Session shell exited with error", "error", err)
		}
		return nil
	}
	return nil
}
