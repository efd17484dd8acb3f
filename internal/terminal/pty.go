package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"github.com/google/uuid"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// defaultOutputLimit caps the output retained per pty session.
const defaultOutputLimit = 256 * 1024

// PTYOptions configures a PTYHost.
type PTYOptions struct {
	// Shell is the program started in each session. Defaults to $SHELL, then /bin/sh.
	Shell string

	// WorkDir is the starting directory for new sessions.
	WorkDir string

	// Mirror, when set, receives a copy of everything a session prints.
	Mirror io.Writer

	// OutputLimit caps the retained output per session in bytes.
	OutputLimit int
}

// PTYHost runs sessions as shells on pseudo-terminals owned by this process.
// Sessions end when the process exits.
type PTYHost struct {
	opts PTYOptions

	mu       sync.Mutex
	sessions []*PTYSession
	active   *PTYSession
}

// NewPTYHost creates an in-process pty host.
func NewPTYHost(opts PTYOptions) *PTYHost {
	if opts.Shell == "" {
		opts.Shell = os.Getenv("SHELL")
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.OutputLimit <= 0 {
		opts.OutputLimit = defaultOutputLimit
	}
	return &PTYHost{opts: opts}
}

// Active returns the most recently shown session.
func (h *PTYHost) Active() (Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return nil, nil
	}
	return h.active, nil
}

// Sessions returns sessions in creation order.
func (h *PTYHost) Sessions() ([]Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out, nil
}

// Find returns the newest session with the given display name.
func (h *PTYHost) Find(name string) (*PTYSession, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.sessions) - 1; i >= 0; i-- {
		s := h.sessions[i]
		if s.name == name {
			return s, true
		}
	}
	return nil, false
}

// Create starts a shell on a new pseudo-terminal.
func (h *PTYHost) Create(name string) (Session, error) {
	cmd := exec.Command(h.opts.Shell)
	cmd.Dir = h.opts.WorkDir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 120})
	if err != nil {
		return nil, fmt.Errorf("failed to start shell in pty: %w", err)
	}

	s := &PTYSession{
		id:     uuid.NewString(),
		name:   name,
		ptmx:   ptmx,
		cmd:    cmd,
		mirror: h.opts.Mirror,
		out:    newRingBuffer(h.opts.OutputLimit),
		done:   make(chan struct{}),
		host:   h,
	}
	go s.pump()
	go s.wait()

	h.mu.Lock()
	h.sessions = append(h.sessions, s)
	h.mu.Unlock()

	log.Debug("Started pty session", "name", name, "id", s.id, "shell", h.opts.Shell)
	return s, nil
}

// Close terminates every session.
func (h *PTYHost) Close() error {
	h.mu.Lock()
	sessions := append([]*PTYSession(nil), h.sessions...)
	h.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PTYSession is a shell running on a pseudo-terminal.
type PTYSession struct {
	id     string
	name   string
	ptmx   *os.File
	cmd    *exec.Cmd
	mirror io.Writer
	host   *PTYHost

	outMu sync.Mutex
	out   *ringBuffer

	done     chan struct{}
	exitErr  error
	attachMu sync.Mutex
}

// ID returns the session's unique identifier.
func (s *PTYSession) ID() string { return s.id }

// Name returns the display name.
func (s *PTYSession) Name() string { return s.name }

// Exited reports whether the shell has terminated.
func (s *PTYSession) Exited() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done is closed when the shell exits.
func (s *PTYSession) Done() <-chan struct{} { return s.done }

// SendText writes text followed by a carriage return to the terminal.
func (s *PTYSession) SendText(text string) error {
	if s.Exited() {
		return ErrSessionExited
	}
	if _, err := io.WriteString(s.ptmx, text+"\r"); err != nil {
		return fmt.Errorf("failed to write to pty: %w", err)
	}
	return nil
}

// Show marks the session as the host's active session.
func (s *PTYSession) Show() error {
	if s.Exited() {
		return ErrSessionExited
	}
	s.host.mu.Lock()
	s.host.active = s
	s.host.mu.Unlock()
	return nil
}

// Output returns up to max trailing bytes of retained output. max <= 0 returns all.
func (s *PTYSession) Output(max int) []byte {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return s.out.Tail(max)
}

// Attach connects the user's terminal to the session until ctx is cancelled,
// the shell exits, or in reaches EOF. in is put in raw mode when it is a
// terminal.
func (s *PTYSession) Attach(ctx context.Context, in *os.File, out io.Writer) error {
	s.attachMu.Lock()
	defer s.attachMu.Unlock()

	if s.Exited() {
		return ErrSessionExited
	}

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		defer func() { _ = term.Restore(fd, state) }()
		_ = pty.InheritSize(in, s.ptmx)
	}

	input, err := cancelreader.NewReader(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	defer input.Close()

	prev := s.swapMirror(out)
	defer s.swapMirror(prev)

	inputDone := make(chan error, 1)
	go func() {
		_, err := io.Copy(s.ptmx, input)
		inputDone <- err
	}()

	copying := true
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-s.done:
	case err = <-inputDone:
		copying = false
	}

	// The copy must stop before in is handed back to the caller.
	input.Cancel()
	if copying {
		<-inputDone
	}
	if errors.Is(err, cancelreader.ErrCanceled) {
		err = nil
	}
	return err
}

func (s *PTYSession) swapMirror(w io.Writer) io.Writer {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	prev := s.mirror
	s.mirror = w
	return prev
}

// Wait blocks until the shell exits and returns its exit error.
func (s *PTYSession) Wait() error {
	<-s.done
	return s.exitErr
}

// Close kills the shell and releases the pty.
func (s *PTYSession) Close() error {
	if !s.Exited() && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	<-s.done
	if err := s.ptmx.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

func (s *PTYSession) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.outMu.Lock()
			s.out.Write(buf[:n])
			mirror := s.mirror
			s.outMu.Unlock()
			if mirror != nil {
				_, _ = mirror.Write(buf[:n])
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *PTYSession) wait() {
	s.exitErr = s.cmd.Wait()
	log.Debug("pty session exited", "name", s.name, "id", s.id, "error", s.exitErr)
	close(s.done)
}

// ringBuffer keeps the last size bytes written to it.
type ringBuffer struct {
	buf  []byte
	size int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{size: size}
}

func (r *ringBuffer) Write(p []byte) {
	r.buf = append(r.buf, p...)
	if over := len(r.buf) - r.size; over > 0 {
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}
}

func (r *ringBuffer) Tail(max int) []byte {
	b := r.buf
	if max > 0 && len(b) > max {
		b = b[len(b)-max:]
	}
	return append([]byte(nil), b...)
}
