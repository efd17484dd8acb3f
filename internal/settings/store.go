package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	// ErrUnknownKey is returned for keys outside Definitions.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrMalformedSettings is returned when a settings document is not valid JSON.
	ErrMalformedSettings = errors.New("malformed settings document")

	// ErrCommentedSettings is returned when writing would drop comments from a document.
	ErrCommentedSettings = errors.New("settings document contains comments")
)

// UserSettingsEnv overrides the location of the user settings document.
const UserSettingsEnv = "PWRUN_USER_SETTINGS"

// Scope identifies where a setting value came from.
type Scope string

const (
	ScopeWorkspace Scope = "workspace"
	ScopeUser      Scope = "user"
	ScopeDefault   Scope = "default"
)

// Store reads and writes settings documents.
type Store struct {
	// UserPath is the global settings document.
	UserPath string

	// WorkspacePath is the workspace settings document, empty without a workspace.
	WorkspacePath string
}

// NewStore creates a store for a user document and an optional workspace root.
//
// Parameters:
//   - userPath: Path to the user settings document
//   - workspaceRoot: Workspace root directory (empty for none)
//
// Returns:
//   - *Store: A new store
func NewStore(userPath, workspaceRoot string) *Store {
	s := &Store{UserPath: userPath}
	if workspaceRoot != "" {
		s.WorkspacePath = WorkspacePath(workspaceRoot)
	}
	return s
}

// DefaultUserPath returns $PWRUN_USER_SETTINGS, or settings.json under the
// user config directory.
//
// Returns:
//   - string: Path to the user settings document
//   - error: If the user config directory cannot be determined
func DefaultUserPath() (string, error) {
	if p := os.Getenv(UserSettingsEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "pwrun", "settings.json"), nil
}

// WorkspacePath returns the workspace settings document for a root.
func WorkspacePath(root string) string {
	return filepath.Join(root, ".vscode", "settings.json")
}

// Value is a resolved setting with its origin.
type Value struct {
	Definition Definition
	Result     gjson.Result
	Scope      Scope
}

// String renders the value for display.
func (v Value) String() string {
	if v.Scope == ScopeDefault {
		if v.Definition.Default == nil {
			return ""
		}
		return fmt.Sprint(v.Definition.Default)
	}
	return v.Result.String()
}

type document struct {
	scope Scope
	path  string
	data  []byte
}

// Load reads both documents and returns a fresh snapshot.
//
// Returns:
//   - RunConfig: The merged configuration
//   - error: If a document exists but cannot be read or parsed
func (s *Store) Load() (RunConfig, error) {
	docs, err := s.documents()
	if err != nil {
		return RunConfig{}, err
	}

	var cfg RunConfig
	cfg.ConfigFile = lookup(docs, KeyConfigFile).Result.String()
	cfg.Project = lookup(docs, KeyProject).Result.String()
	cfg.CodegenURL = lookup(docs, KeyCodegenURL).Result.String()
	cfg.FilterSingleTarget = lookup(docs, KeyFilterSingleTarget).Result.Bool()
	cfg.CodegenURLFromEnv = lookup(docs, KeyCodegenURLFromEnv).Result.Bool()
	cfg.ReportSettingsErrors = lookup(docs, KeyReportSettingsErrors).Result.Bool()

	if r := lookup(docs, KeyRepeatEach).Result; r.Type == gjson.Number {
		n := int(r.Int())
		cfg.RepeatEach = &n
	}

	return cfg, nil
}

// Inspect resolves a single key and reports which document supplied it.
//
// Parameters:
//   - key: Setting key, with or without namespace
//
// Returns:
//   - Value: The resolved value (ScopeDefault when no document sets it)
//   - error: Unknown key or unreadable document
func (s *Store) Inspect(key string) (Value, error) {
	def, ok := Lookup(key)
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	docs, err := s.documents()
	if err != nil {
		return Value{}, err
	}
	v := lookup(docs, def.Key)
	v.Definition = def
	return v, nil
}

// List resolves every known setting.
//
// Returns:
//   - []Value: One entry per Definition, in order
//   - error: Unreadable document
func (s *Store) List() ([]Value, error) {
	docs, err := s.documents()
	if err != nil {
		return nil, err
	}
	values := make([]Value, 0, len(Definitions))
	for _, def := range Definitions {
		v := lookup(docs, def.Key)
		v.Definition = def
		values = append(values, v)
	}
	return values, nil
}

// PersistResult reports the outcome of a settings write. Callers decide
// whether a failure is surfaced or ignored.
type PersistResult struct {
	Key  string
	Path string
	Err  error
}

// OK reports whether the write succeeded.
func (r PersistResult) OK() bool {
	return r.Err == nil
}

// UpdateGlobal writes a key into the user settings document. Missing files and
// directories are created; existing formatting is kept.
//
// Parameters:
//   - key: Setting key, with or without namespace
//   - value: New value (string, int or bool)
//
// Returns:
//   - PersistResult: Outcome of the write
func (s *Store) UpdateGlobal(key string, value interface{}) PersistResult {
	res := PersistResult{Key: NormalizeKey(key), Path: s.UserPath}
	if _, ok := Lookup(key); !ok {
		res.Err = fmt.Errorf("%w: %s", ErrUnknownKey, key)
		return res
	}
	if s.UserPath == "" {
		res.Err = errors.New("no user settings path configured")
		return res
	}

	raw, exists, err := readDocument(s.UserPath)
	if err != nil {
		res.Err = err
		return res
	}
	if !exists || len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
		exists = false
	}
	clean := toJSON(raw)
	if hasComments(raw, clean) {
		res.Err = fmt.Errorf("%w: %s", ErrCommentedSettings, s.UserPath)
		return res
	}
	if !gjson.ValidBytes(clean) {
		res.Err = fmt.Errorf("%w: %s", ErrMalformedSettings, s.UserPath)
		return res
	}
	// Trailing commas are blanked so the edited document stays valid JSON.
	raw = clean

	out, err := sjson.SetBytes(raw, escapePath(Namespace+"."+res.Key), value)
	if err != nil {
		res.Err = fmt.Errorf("failed to update %s: %w", s.UserPath, err)
		return res
	}
	if !exists {
		out = pretty.PrettyOptions(out, &pretty.Options{Width: 80, Indent: "  "})
	}

	if err := os.MkdirAll(filepath.Dir(s.UserPath), 0755); err != nil {
		res.Err = fmt.Errorf("failed to create settings directory: %w", err)
		return res
	}
	if err := os.WriteFile(s.UserPath, out, 0644); err != nil {
		res.Err = fmt.Errorf("failed to write settings file: %w", err)
		return res
	}
	return res
}

// documents returns the existing documents in precedence order.
func (s *Store) documents() ([]document, error) {
	var docs []document
	candidates := []document{
		{scope: ScopeWorkspace, path: s.WorkspacePath},
		{scope: ScopeUser, path: s.UserPath},
	}
	for _, c := range candidates {
		if c.path == "" {
			continue
		}
		raw, exists, err := readDocument(c.path)
		if err != nil {
			return nil, err
		}
		if !exists || len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		clean := toJSON(raw)
		if !gjson.ValidBytes(clean) {
			return nil, fmt.Errorf("%w: %s", ErrMalformedSettings, c.path)
		}
		c.data = clean
		docs = append(docs, c)
	}
	return docs, nil
}

func lookup(docs []document, key string) Value {
	path := escapePath(Namespace + "." + key)
	for _, d := range docs {
		if r := gjson.GetBytes(d.data, path); r.Exists() {
			return Value{Result: r, Scope: d.scope}
		}
	}
	return Value{Scope: ScopeDefault}
}

func readDocument(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read settings file: %w", err)
	}
	return data, true, nil
}

// escapePath escapes gjson/sjson path metacharacters so a dotted settings key
// is addressed as a single object member.
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
