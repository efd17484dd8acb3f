package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/revyl/pwrun/internal/command"
	"github.com/revyl/pwrun/internal/runner"
	"github.com/revyl/pwrun/internal/settings"
)

func TestSelectionFromArgs(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	abs := func(p string) string { return filepath.Join(cwd, p) }

	tests := []struct {
		name     string
		args     []string
		selected []string
		want     command.Selection
	}{
		{
			name: "no args",
			want: command.Selection{},
		},
		{
			name: "single path is primary",
			args: []string{"tests/login.spec.ts"},
			want: command.Selection{Primary: abs("tests/login.spec.ts")},
		},
		{
			name: "several paths are a selection",
			args: []string{"a.spec.ts", "b.test.ts"},
			want: command.Selection{Selected: []string{abs("a.spec.ts"), abs("b.test.ts")}},
		},
		{
			name:     "selected flag keeps first arg as primary",
			args:     []string{"a.spec.ts"},
			selected: []string{"a.spec.ts", "notes.md"},
			want: command.Selection{
				Primary:  abs("a.spec.ts"),
				Selected: []string{abs("a.spec.ts"), abs("notes.md")},
			},
		},
		{
			name:     "absolute paths are kept",
			args:     []string{"/work/tests"},
			want:     command.Selection{Primary: "/work/tests"},
			selected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectionFromArgs(tt.args, tt.selected)
			if err != nil {
				t.Fatalf("selectionFromArgs() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("selectionFromArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWatchPaths(t *testing.T) {
	if got := watchPaths(command.Selection{}); got != nil {
		t.Errorf("watchPaths(empty) = %v, want nil", got)
	}
	if got := watchPaths(command.Selection{Primary: "/w/a.spec.ts"}); !reflect.DeepEqual(got, []string{"/w/a.spec.ts"}) {
		t.Errorf("watchPaths(primary) = %v", got)
	}
	sel := command.Selection{Primary: "/w/a.spec.ts", Selected: []string{"/w/a.spec.ts", "/w/b.spec.ts"}}
	if got := watchPaths(sel); !reflect.DeepEqual(got, sel.Selected) {
		t.Errorf("watchPaths(selected) = %v", got)
	}
}

func TestDocumentLine(t *testing.T) {
	text := "{\r\n  \"a\": 1,\n  \"b\": 2\n}"
	tests := []struct {
		n    int
		want string
	}{
		{0, "{"},
		{1, `  "a": 1,`},
		{2, `  "b": 2`},
		{3, "}"},
		{4, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := documentLine(text, tt.n); got != tt.want {
			t.Errorf("documentLine(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestNewTestOutput(t *testing.T) {
	rec := &runner.Recorder{}
	rec.Info("hello")
	n := 4
	out := newTestOutput(runner.Result{Command: "npx playwright test", Session: "Playwright Tests", Repeat: &n}, rec, false, nil)
	if !out.Success || out.Command != "npx playwright test" || out.Repeat == nil || *out.Repeat != 4 {
		t.Errorf("unexpected output: %+v", out)
	}
	if len(out.Notifications) != 1 || out.Notifications[0].Text != "hello" {
		t.Errorf("notifications = %+v", out.Notifications)
	}

	out = newTestOutput(runner.Result{}, nil, true, command.ErrNoMatchingFiles)
	if out.Success {
		t.Error("expected Success to be false")
	}
	if out.Error != "No .spec.ts or .test.ts files found in selection." {
		t.Errorf("Error = %q", out.Error)
	}

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, ok := decoded["notifications"]; ok {
		t.Error("empty notifications should be omitted")
	}
}

func TestErrorReported(t *testing.T) {
	if errorReported(errors.New("plain")) {
		t.Error("plain errors are not reported")
	}
	err := reportedError{command.ErrNoTarget}
	if !errorReported(err) {
		t.Error("reportedError should be reported")
	}
	if !errors.Is(err, command.ErrNoTarget) {
		t.Error("reportedError should unwrap")
	}
}

// runRoot executes the root command with args against a temporary workspace
// and user settings file.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := t.TempDir()
	userPath := filepath.Join(t.TempDir(), "settings.json")
	t.Setenv(settings.UserSettingsEnv, userPath)

	rootCmd.SetArgs(append([]string{"--quiet", "--workspace", root}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("terminal", "")
	})
	return userPath, rootCmd.Execute()
}

func TestConfigSetCommand(t *testing.T) {
	userPath, err := runRoot(t, "config", "set", "repeatEach", "6")
	if err != nil {
		t.Fatalf("config set error = %v", err)
	}

	cfg, err := settings.NewStore(userPath, "").Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RepeatEach == nil || *cfg.RepeatEach != 6 {
		t.Errorf("RepeatEach = %v, want 6", cfg.RepeatEach)
	}
}

func TestConfigSetRejectsInvalidValue(t *testing.T) {
	if _, err := runRoot(t, "config", "set", "repeatEach", "-1"); err == nil {
		t.Fatal("expected error for negative repeatEach")
	}
	if _, err := runRoot(t, "config", "set", "nope", "1"); !errors.Is(err, settings.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestTestCommandWithoutTarget(t *testing.T) {
	t.Cleanup(func() { testDryRun = false })
	_, err := runRoot(t, "test", "--dry-run")
	if !errors.Is(err, command.ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
	if !errorReported(err) {
		t.Error("runner errors should be marked as reported")
	}
}

func TestUnknownBackend(t *testing.T) {
	_, err := runRoot(t, "--terminal", "screen", "sessions", "list")
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
