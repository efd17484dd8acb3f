package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteAndLoadProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := ProjectConfigPath(root)

	cfg := DefaultProjectConfig()
	cfg.Terminal.TmuxSocket = "pw"
	if err := WriteProjectConfig(path, cfg); err != nil {
		t.Fatalf("WriteProjectConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# pwrun Configuration") {
		t.Errorf("missing header comment:\n%s", data)
	}

	loaded, err := LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("LoadProjectConfig() error = %v", err)
	}
	if loaded.Terminal.Backend != BackendAuto || loaded.Terminal.TmuxSocket != "pw" {
		t.Errorf("Terminal = %+v", loaded.Terminal)
	}
	if loaded.Watch.Debounce() != DefaultDebounce {
		t.Errorf("Debounce() = %v, want %v", loaded.Watch.Debounce(), DefaultDebounce)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantBackend string
		wantDelay   time.Duration
		wantErr     string
	}{
		{
			name:        "empty file uses defaults",
			content:     "",
			wantBackend: BackendAuto,
			wantDelay:   DefaultDebounce,
		},
		{
			name:        "explicit values",
			content:     "terminal:\n  backend: pty\nwatch:\n  debounce_ms: 50\n",
			wantBackend: BackendPTY,
			wantDelay:   50 * time.Millisecond,
		},
		{
			name:    "unknown backend",
			content: "terminal:\n  backend: screen\n",
			wantErr: "terminal.backend",
		},
		{
			name:    "negative debounce",
			content: "watch:\n  debounce_ms: -5\n",
			wantErr: "watch.debounce_ms",
		},
		{
			name:    "bad yaml",
			content: "terminal: [\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadProjectConfig(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Terminal.Backend != tt.wantBackend {
				t.Errorf("Backend = %q, want %q", cfg.Terminal.Backend, tt.wantBackend)
			}
			if cfg.Watch.Debounce() != tt.wantDelay {
				t.Errorf("Debounce() = %v, want %v", cfg.Watch.Debounce(), tt.wantDelay)
			}
		})
	}
}

func TestLoadProjectConfigOrDefault(t *testing.T) {
	cfg, err := LoadProjectConfigOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Terminal.Backend != BackendAuto {
		t.Errorf("Backend = %q, want %q", cfg.Terminal.Backend, BackendAuto)
	}
}

func TestFindWorkspaceRoot(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		isDir  bool
	}{
		{"pwrun dir", Dir, true},
		{"vscode settings", filepath.Join(".vscode", "settings.json"), false},
		{"package.json", "package.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			marker := filepath.Join(root, tt.marker)
			if tt.isDir {
				if err := os.Mkdir(marker, 0755); err != nil {
					t.Fatal(err)
				}
			} else {
				if err := os.MkdirAll(filepath.Dir(marker), 0755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(marker, []byte("{}"), 0644); err != nil {
					t.Fatal(err)
				}
			}

			nested := filepath.Join(root, "tests", "e2e")
			if err := os.MkdirAll(nested, 0755); err != nil {
				t.Fatal(err)
			}

			got, err := FindWorkspaceRoot(nested)
			if err != nil {
				t.Fatalf("FindWorkspaceRoot() error = %v", err)
			}
			want, _ := filepath.EvalSymlinks(root)
			gotResolved, _ := filepath.EvalSymlinks(got)
			if gotResolved != want {
				t.Errorf("FindWorkspaceRoot() = %q, want %q", got, root)
			}
		})
	}
}

func TestFindWorkspaceRootIgnoresBareVSCodeDir(t *testing.T) {
	outer := t.TempDir()
	if err := os.WriteFile(filepath.Join(outer, "package.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	home := filepath.Join(outer, "home")
	if err := os.MkdirAll(filepath.Join(home, ".vscode", "extensions"), 0755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(home, "projects", "app")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindWorkspaceRoot(nested)
	if err != nil {
		t.Fatalf("FindWorkspaceRoot() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(outer)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != want {
		t.Errorf("FindWorkspaceRoot() = %q, want %q", got, outer)
	}
}
