package runner

import (
	"sync"

	"github.com/revyl/pwrun/internal/ui"
)

// Level is the severity of a notification.
type Level string

// Notification levels.
const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notifier shows transient messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// UINotifier prints notifications with the ui package.
type UINotifier struct{}

func (UINotifier) Info(msg string)  { ui.PrintInfo("%s", msg) }
func (UINotifier) Warn(msg string)  { ui.PrintWarning("%s", msg) }
func (UINotifier) Error(msg string) { ui.PrintError("%s", msg) }

// Message is a recorded notification.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Recorder collects notifications instead of printing them.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

func (r *Recorder) Info(msg string)  { r.add(LevelInfo, msg) }
func (r *Recorder) Warn(msg string)  { r.add(LevelWarning, msg) }
func (r *Recorder) Error(msg string) { r.add(LevelError, msg) }

// Messages returns the recorded notifications in order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}
