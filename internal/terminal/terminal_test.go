package terminal

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeSession struct {
	name   string
	exited bool
	sent   []string
}

func (s *fakeSession) Name() string { return s.name }
func (s *fakeSession) Exited() bool { return s.exited }
func (s *fakeSession) Show() error  { return nil }
func (s *fakeSession) SendText(text string) error {
	if s.exited {
		return ErrSessionExited
	}
	s.sent = append(s.sent, text)
	return nil
}

type fakeHost struct {
	mu       sync.Mutex
	active   *fakeSession
	sessions []*fakeSession
	created  int
	listErr  error
}

func (h *fakeHost) Active() (Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active == nil {
		return nil, nil
	}
	return h.active, nil
}

func (h *fakeHost) Sessions() ([]Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listErr != nil {
		return nil, h.listErr
	}
	out := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (h *fakeHost) Create(name string) (Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created++
	s := &fakeSession{name: name}
	h.sessions = append(h.sessions, s)
	h.active = s
	return s, nil
}

// TestGetOrCreate covers the reuse policy.
func TestGetOrCreate(t *testing.T) {
	tests := []struct {
		name        string
		host        func() *fakeHost
		request     string
		wantCreated int
		wantName    string
		wantSame    func(h *fakeHost) Session
	}{
		{
			name:        "creates when host is empty",
			host:        func() *fakeHost { return &fakeHost{} },
			request:     TestSessionName,
			wantCreated: 1,
			wantName:    TestSessionName,
		},
		{
			name: "reuses active session with matching name",
			host: func() *fakeHost {
				s := &fakeSession{name: TestSessionName}
				return &fakeHost{active: s, sessions: []*fakeSession{s}}
			},
			request:  TestSessionName,
			wantName: TestSessionName,
			wantSame: func(h *fakeHost) Session { return h.active },
		},
		{
			name: "reuses active session when no name requested",
			host: func() *fakeHost {
				return &fakeHost{active: &fakeSession{name: "zsh"}}
			},
			wantName: "zsh",
			wantSame: func(h *fakeHost) Session { return h.active },
		},
		{
			name: "skips active session with other name",
			host: func() *fakeHost {
				other := &fakeSession{name: "zsh"}
				named := &fakeSession{name: TestSessionName}
				return &fakeHost{active: other, sessions: []*fakeSession{other, named}}
			},
			request:  TestSessionName,
			wantName: TestSessionName,
			wantSame: func(h *fakeHost) Session { return h.sessions[1] },
		},
		{
			name: "skips exited named session",
			host: func() *fakeHost {
				dead := &fakeSession{name: TestSessionName, exited: true}
				return &fakeHost{active: dead, sessions: []*fakeSession{dead}}
			},
			request:     TestSessionName,
			wantCreated: 1,
			wantName:    TestSessionName,
		},
		{
			name: "exited active session without name creates anonymous",
			host: func() *fakeHost {
				return &fakeHost{active: &fakeSession{name: "zsh", exited: true}}
			},
			wantCreated: 1,
			wantName:    "",
		},
		{
			name: "list failure falls back to create",
			host: func() *fakeHost {
				return &fakeHost{listErr: errors.New("no server")}
			},
			request:     CodegenSessionName,
			wantCreated: 1,
			wantName:    CodegenSessionName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.host()
			var want Session
			if tt.wantSame != nil {
				want = tt.wantSame(h)
			}

			got, err := NewManager(h).GetOrCreate(tt.request)
			if err != nil {
				t.Fatalf("GetOrCreate() error = %v", err)
			}
			if h.created != tt.wantCreated {
				t.Errorf("created = %d, want %d", h.created, tt.wantCreated)
			}
			if got.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", got.Name(), tt.wantName)
			}
			if want != nil && got != want {
				t.Errorf("GetOrCreate() returned a different session instance")
			}
		})
	}
}

// TestGetOrCreateAcrossExit verifies reuse until the session exits.
func TestGetOrCreateAcrossExit(t *testing.T) {
	h := &fakeHost{}
	m := NewManager(h)

	first, err := m.GetOrCreate(TestSessionName)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.GetOrCreate(TestSessionName)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatal("expected the same session on second request")
	}

	first.(*fakeSession).exited = true
	third, err := m.GetOrCreate(TestSessionName)
	if err != nil {
		t.Fatal(err)
	}
	if third == first {
		t.Fatal("expected a new session after exit")
	}
	if h.created != 2 {
		t.Errorf("created = %d, want 2", h.created)
	}
	if err := third.SendText(fmt.Sprintf("echo %d", h.created)); err != nil {
		t.Errorf("SendText() error = %v", err)
	}
}

// TestGetOrCreateConcurrent verifies simultaneous requests share one session.
func TestGetOrCreateConcurrent(t *testing.T) {
	h := &fakeHost{}
	m := NewManager(h)

	const workers = 16
	start := make(chan struct{})
	results := make([]Session, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = m.GetOrCreate(TestSessionName)
		}(i)
	}
	close(start)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: GetOrCreate() error = %v", i, err)
		}
		if results[i] != results[0] {
			t.Errorf("worker %d got a different session", i)
		}
	}
	if h.created != 1 {
		t.Errorf("created = %d, want 1", h.created)
	}
}
