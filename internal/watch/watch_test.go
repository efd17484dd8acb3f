package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "login.spec.ts")
	other := filepath.Join(dir, "notes.txt")
	writeFile(t, target, "test('a', () => {})\n")
	writeFile(t, other, "x")

	w, err := New([]string{target}, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan []string, 10)
	go func() {
		_ = w.Run(ctx, func(changed []string) { batches <- changed })
	}()

	// Give the watcher goroutine a moment to start consuming events.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, other, "y")
	for i := 0; i < 3; i++ {
		writeFile(t, target, "test('b', () => {})\n")
	}

	select {
	case changed := <-batches:
		abs, _ := filepath.Abs(target)
		if len(changed) != 1 || changed[0] != abs {
			t.Errorf("changed = %v, want [%s]", changed, abs)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	select {
	case extra := <-batches:
		t.Errorf("unexpected second batch: %v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "e2e", "a.spec.ts"), "")
	writeFile(t, filepath.Join(dir, "node_modules", "x", "b.spec.ts"), "")

	w, err := New([]string{dir}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	abs, _ := filepath.Abs(dir)
	if !w.relevant(filepath.Join(abs, "e2e", "a.spec.ts")) {
		t.Error("file under watched directory should be relevant")
	}
	if w.relevant(filepath.Join(filepath.Dir(abs), "elsewhere.spec.ts")) {
		t.Error("file outside watched directory should not be relevant")
	}
}

func TestNewMissingPath(t *testing.T) {
	if _, err := New([]string{filepath.Join(t.TempDir(), "missing.spec.ts")}, time.Millisecond); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx, func([]string) {}); err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}
