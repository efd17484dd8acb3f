// Package config provides project configuration management.
//
// This package handles reading and writing .pwrun/config.yaml files and
// locating the workspace root that commands resolve paths against.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Project configuration locations.
const (
	// Dir is the per-workspace directory holding pwrun files.
	Dir = ".pwrun"

	// FileName is the project configuration file inside Dir.
	FileName = "config.yaml"
)

// Terminal backends.
const (
	BackendAuto = "auto"
	BackendTmux = "tmux"
	BackendPTY  = "pty"
)

// DefaultDebounce is the watch debounce used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// ProjectConfig represents the .pwrun/config.yaml file.
type ProjectConfig struct {
	// Terminal selects and configures the session host.
	Terminal TerminalConfig `yaml:"terminal"`

	// Watch configures `pwrun test --watch`.
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// TerminalConfig configures where commands are sent.
type TerminalConfig struct {
	// Backend is auto, tmux or pty. Auto uses tmux when it is installed.
	Backend string `yaml:"backend"`

	// TmuxSocket is the tmux socket name (tmux -L). Empty uses tmux's default.
	TmuxSocket string `yaml:"tmux_socket,omitempty"`
}

// WatchConfig configures file watching.
type WatchConfig struct {
	// DebounceMs is how long to wait after the last change before re-running.
	DebounceMs int `yaml:"debounce_ms,omitempty"`
}

// Debounce returns the configured debounce or DefaultDebounce.
func (w WatchConfig) Debounce() time.Duration {
	if w.DebounceMs <= 0 {
		return DefaultDebounce
	}
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// DefaultProjectConfig returns the configuration written by `pwrun init`.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Terminal: TerminalConfig{Backend: BackendAuto},
		Watch:    WatchConfig{DebounceMs: int(DefaultDebounce / time.Millisecond)},
	}
}

// Validate checks field values.
//
// Returns:
//   - error: Validation error or nil if valid
func (c *ProjectConfig) Validate() error {
	switch c.Terminal.Backend {
	case "", BackendAuto, BackendTmux, BackendPTY:
	default:
		return fmt.Errorf("terminal.backend: unknown backend %q (supported: auto, tmux, pty)", c.Terminal.Backend)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms: must be 0 or more, got %d", c.Watch.DebounceMs)
	}
	return nil
}

// ProjectConfigPath returns the config file path for a workspace root.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// LoadProjectConfig loads a project configuration from a file.
//
// Parameters:
//   - path: Path to the config.yaml file
//
// Returns:
//   - *ProjectConfig: The loaded configuration
//   - error: Any error that occurred during loading or validation
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Terminal.Backend == "" {
		cfg.Terminal.Backend = BackendAuto
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadProjectConfigOrDefault loads the workspace's config, falling back to
// defaults when the file does not exist.
func LoadProjectConfigOrDefault(root string) (*ProjectConfig, error) {
	path := ProjectConfigPath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultProjectConfig(), nil
	}
	return LoadProjectConfig(path)
}

// WriteProjectConfig writes a project configuration to a file, creating its
// directory if needed.
//
// Parameters:
//   - path: Path to write the config.yaml file
//   - cfg: The configuration to write
//
// Returns:
//   - error: Any error that occurred during writing
func WriteProjectConfig(path string, cfg *ProjectConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Add header comment
	header := "# pwrun Configuration\n# Generated by: pwrun init\n\n"
	content := header + string(data)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
