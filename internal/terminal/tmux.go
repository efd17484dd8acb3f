package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/revyl/pwrun/internal/util"
)

// tmux sessions created by pwrun are prefixed so they are easy to spot in
// `tmux ls` and never collide with the user's own sessions.
const tmuxSessionPrefix = "pwrun-"

// tmuxNameOption stores the display name on the tmux session.
const tmuxNameOption = "@pwrun_name"

// tmuxFormat is the row format used for session queries.
const tmuxFormat = "#{session_name}\t#{" + tmuxNameOption + "}\t#{pane_dead}"

// tmux errors.
var (
	ErrNoServer        = errors.New("no tmux server running")
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionNotFound = errors.New("session not found")
)

// TmuxOptions configures a TmuxHost.
type TmuxOptions struct {
	// Socket is the tmux socket name (-L). Empty uses the default server.
	Socket string

	// WorkDir is the starting directory for new sessions.
	WorkDir string
}

// TmuxHost keeps sessions in tmux so they survive between invocations.
type TmuxHost struct {
	socket  string
	workDir string

	// run executes tmux with the given arguments and returns trimmed stdout.
	run func(args ...string) (string, error)
}

// NewTmuxHost creates a tmux-backed host.
//
// Parameters:
//   - opts: Socket and working directory
//
// Returns:
//   - *TmuxHost: A new host
func NewTmuxHost(opts TmuxOptions) *TmuxHost {
	h := &TmuxHost{socket: opts.Socket, workDir: opts.WorkDir}
	h.run = h.exec
	return h
}

// TmuxAvailable reports whether a tmux binary is on PATH.
func TmuxAvailable() bool {
	_, err := exec.LookPath("tmux")
	return err == nil
}

func (h *TmuxHost) exec(args ...string) (string, error) {
	allArgs := []string{"-u"}
	if h.socket != "" {
		allArgs = append(allArgs, "-L", h.socket)
	}
	allArgs = append(allArgs, args...)

	cmd := exec.Command("tmux", allArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("tmux", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return "", wrapTmuxError(err, stderr.String(), args)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// wrapTmuxError maps tmux stderr onto the package's sentinel errors.
func wrapTmuxError(err error, stderr string, args []string) error {
	stderr = strings.TrimSpace(stderr)

	switch {
	case strings.Contains(stderr, "no server running"),
		strings.Contains(stderr, "error connecting to"),
		strings.Contains(stderr, "server exited unexpectedly"):
		return ErrNoServer
	case strings.Contains(stderr, "duplicate session"):
		return ErrSessionExists
	case strings.Contains(stderr, "session not found"),
		strings.Contains(stderr, "can't find session"):
		return ErrSessionNotFound
	}

	if stderr != "" {
		return fmt.Errorf("tmux %s: %s", args[0], stderr)
	}
	return fmt.Errorf("tmux %s: %w", args[0], err)
}

// insideSameServer reports whether this process runs inside a tmux client
// attached to the server this host talks to.
func (h *TmuxHost) insideSameServer() bool {
	env := os.Getenv("TMUX")
	if env == "" {
		return false
	}
	// TMUX format: /tmp/tmux-UID/socketname,pid,index
	current := filepath.Base(strings.SplitN(env, ",", 2)[0])
	want := h.socket
	if want == "" {
		want = "default"
	}
	return current == want
}

// Active returns the session of the attached client, if pwrun runs inside tmux.
func (h *TmuxHost) Active() (Session, error) {
	if !h.insideSameServer() {
		return nil, nil
	}
	out, err := h.run("display-message", "-p", tmuxFormat)
	if err != nil {
		return nil, err
	}
	s, ok := h.parseRow(out)
	if !ok {
		return nil, nil
	}
	return s, nil
}

// Sessions lists every session on the server.
func (h *TmuxHost) Sessions() ([]Session, error) {
	rows, err := h.list()
	if err != nil {
		return nil, err
	}
	out := make([]Session, 0, len(rows))
	for _, s := range rows {
		out = append(out, s)
	}
	return out, nil
}

// Owned lists only sessions created by pwrun.
func (h *TmuxHost) Owned() ([]*TmuxSession, error) {
	rows, err := h.list()
	if err != nil {
		return nil, err
	}
	var out []*TmuxSession
	for _, s := range rows {
		if strings.HasPrefix(s.id, tmuxSessionPrefix) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (h *TmuxHost) list() ([]*TmuxSession, error) {
	out, err := h.run("list-sessions", "-F", tmuxFormat)
	if err != nil {
		if errors.Is(err, ErrNoServer) {
			return nil, nil
		}
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var sessions []*TmuxSession
	for _, line := range strings.Split(out, "\n") {
		if s, ok := h.parseRow(line); ok {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (h *TmuxHost) parseRow(line string) (*TmuxSession, bool) {
	parts := strings.Split(strings.TrimRight(line, "\r"), "\t")
	if len(parts) != 3 || parts[0] == "" {
		return nil, false
	}
	name := parts[1]
	if name == "" {
		name = parts[0]
	}
	return &TmuxSession{host: h, id: parts[0], name: name, dead: parts[2] == "1"}, true
}

// sessionID derives the tmux session name for a display name.
func sessionID(name string) string {
	slug := util.SanitizeSessionName(name)
	if slug == "" {
		slug = uuid.NewString()[:8]
	}
	return tmuxSessionPrefix + slug
}

// Create starts a detached tmux session for name. A dead session occupying the
// same tmux name is replaced; a live one with a different display name is kept
// and the new session gets a unique suffix.
func (h *TmuxHost) Create(name string) (Session, error) {
	id := sessionID(name)

	if existing, err := h.lookup(id); err == nil && existing != nil {
		if existing.dead {
			if _, err := h.run("kill-session", "-t", "="+id); err != nil && !errors.Is(err, ErrSessionNotFound) {
				return nil, err
			}
		} else {
			id = id + "-" + uuid.NewString()[:8]
		}
	}

	args := []string{"new-session", "-d", "-s", id}
	if h.workDir != "" {
		args = append(args, "-c", h.workDir)
	}
	if _, err := h.run(args...); err != nil {
		return nil, fmt.Errorf("failed to create tmux session %s: %w", id, err)
	}

	// Keep the pane after the shell exits so a finished session reads as dead
	// instead of disappearing.
	if _, err := h.run("set-option", "-t", id, "remain-on-exit", "on"); err != nil {
		log.Warn("Failed to keep tmux pane after exit", "session", id, "error", err)
	}
	if name != "" {
		if _, err := h.run("set-option", "-t", id, tmuxNameOption, name); err != nil {
			log.Warn("Failed to tag tmux session", "session", id, "error", err)
		}
	}

	return &TmuxSession{host: h, id: id, name: name}, nil
}

func (h *TmuxHost) lookup(id string) (*TmuxSession, error) {
	out, err := h.run("display-message", "-p", "-t", "="+id+":", tmuxFormat)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrNoServer) {
			return nil, nil
		}
		return nil, err
	}
	s, ok := h.parseRow(out)
	if !ok {
		return nil, nil
	}
	return s, nil
}

// TmuxSession is a tmux session owned by a TmuxHost.
type TmuxSession struct {
	host *TmuxHost
	id   string
	name string
	dead bool
}

// ID returns the tmux session name.
func (s *TmuxSession) ID() string { return s.id }

// Name returns the display name.
func (s *TmuxSession) Name() string { return s.name }

// Exited reports whether the session's pane was dead when it was listed.
func (s *TmuxSession) Exited() bool { return s.dead }

// SendText types text into the session and presses Enter.
func (s *TmuxSession) SendText(text string) error {
	if s.dead {
		return ErrSessionExited
	}
	if _, err := s.host.run("send-keys", "-t", s.id, "-l", text); err != nil {
		return err
	}
	_, err := s.host.run("send-keys", "-t", s.id, "Enter")
	return err
}

// Show switches the attached client to this session. Outside tmux it does
// nothing; see AttachHint.
func (s *TmuxSession) Show() error {
	if !s.host.insideSameServer() {
		return nil
	}
	_, err := s.host.run("switch-client", "-t", s.id)
	return err
}

// AttachHint returns the command a user runs to view the session.
func (s *TmuxSession) AttachHint() string {
	if s.host.socket != "" {
		return fmt.Sprintf("tmux -L %s attach -t %s", s.host.socket, s.id)
	}
	return "tmux attach -t " + s.id
}
