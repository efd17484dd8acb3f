// Package terminal manages the reusable named sessions that commands are sent to.
//
// A Host owns the sessions (tmux or in-process pseudo-terminals). The Manager
// applies the reuse policy: prefer the active session when it fits, then a live
// session with the requested name, and only then create a new one.
package terminal

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// Well-known session names.
const (
	TestSessionName    = "Playwright Tests"
	CodegenSessionName = "Playwright Codegen"
)

// ErrSessionExited is returned when writing to a session whose shell has exited.
var ErrSessionExited = errors.New("session has exited")

// Session is a host-managed interactive shell.
type Session interface {
	// Name returns the display name, empty for anonymous sessions.
	Name() string

	// Exited reports whether the session's shell has terminated.
	Exited() bool

	// SendText types text into the session followed by a newline.
	SendText(text string) error

	// Show brings the session to the foreground where the host supports it.
	Show() error
}

// Host creates and enumerates sessions.
type Host interface {
	// Active returns the session that currently has focus, or nil.
	Active() (Session, error)

	// Sessions lists the sessions known to the host.
	Sessions() ([]Session, error)

	// Create starts a new session. An empty name creates an anonymous session.
	Create(name string) (Session, error)
}

// Manager hands out sessions from a Host. It is safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	host Host
}

// NewManager creates a manager over a host.
func NewManager(host Host) *Manager {
	return &Manager{host: host}
}

// Host returns the underlying host.
func (m *Manager) Host() Host {
	return m.host
}

// GetOrCreate returns a reusable session for name, creating one if needed.
//
// The active session is reused when it is alive and either no name was asked
// for or its name matches. Otherwise the first live session with the requested
// name is reused. Lookup failures are treated as "no session".
//
// Parameters:
//   - name: Requested display name (empty for any/anonymous)
//
// Returns:
//   - Session: The reused or new session
//   - error: If the host cannot create a session
func (m *Manager) GetOrCreate(name string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active, err := m.host.Active()
	if err != nil {
		log.Debug("Failed to query active session", "error", err)
	}
	if active != nil && !active.Exited() {
		if name == "" || active.Name() == name {
			log.Debug("Reusing active session", "name", active.Name())
			return active, nil
		}
	}

	if name != "" {
		sessions, err := m.host.Sessions()
		if err != nil {
			log.Debug("Failed to list sessions", "error", err)
		}
		for _, s := range sessions {
			if s.Name() == name && !s.Exited() {
				log.Debug("Reusing named session", "name", name)
				return s, nil
			}
		}
	}

	log.Debug("Creating session", "name", name)
	return m.host.Create(name)
}
