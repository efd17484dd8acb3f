// Package command builds the Playwright command lines sent to terminal sessions.
//
// The builders are pure: they take the target selection, the workspace root
// and a settings snapshot, and return the exact text to type into a shell.
package command

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/revyl/pwrun/internal/settings"
)

// Command prefixes.
const (
	TestCommand     = "npx playwright test"
	RecorderCommand = "npx playwright codegen"
)

// TestSuffixes are the file suffixes accepted from a multi-file selection.
var TestSuffixes = []string{".spec.ts", ".test.ts"}

var (
	// ErrNoTarget is returned when nothing was selected.
	ErrNoTarget = errors.New("no file or folder selected")

	// ErrNoMatchingFiles is returned when a selection holds no recognised test files.
	ErrNoMatchingFiles = errors.New("no .spec.ts or .test.ts files found in selection")
)

// Selection is the raw target input from an invocation: the primary path the
// action was triggered on and, optionally, every selected path.
type Selection struct {
	Primary  string
	Selected []string
}

// Target is a resolved selection.
type Target struct {
	// Paths holds one path for a single target, or the selection in order.
	Paths []string

	// Multi is true when the target came from a multi-file selection.
	Multi bool
}

// Single returns a single-path target.
func Single(path string) Target {
	return Target{Paths: []string{path}}
}

// Multiple returns a multi-path target.
func Multiple(paths ...string) Target {
	return Target{Paths: paths, Multi: true}
}

// Resolve picks the effective target. A non-empty selection wins over the
// primary path.
//
// Returns:
//   - Target: The effective target
//   - error: ErrNoTarget if neither is present
func (s Selection) Resolve() (Target, error) {
	if len(s.Selected) > 0 {
		return Multiple(s.Selected...), nil
	}
	if strings.TrimSpace(s.Primary) != "" {
		return Single(s.Primary), nil
	}
	return Target{}, ErrNoTarget
}

// IsTestFile reports whether a path ends in one of TestSuffixes.
func IsTestFile(path string) bool {
	for _, suffix := range TestSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// FilterTestFiles keeps the paths accepted by IsTestFile, in order.
func FilterTestFiles(paths []string) []string {
	var out []string
	for _, p := range paths {
		if IsTestFile(p) {
			out = append(out, p)
		}
	}
	return out
}

// RelativePath renders a path relative to the workspace root with forward
// slashes. Paths outside the root, or any path when root is empty, are
// returned unchanged.
//
// Parameters:
//   - root: Workspace root directory
//   - path: Path to render
//
// Returns:
//   - string: The display path
func RelativePath(root, path string) string {
	if root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func quote(s string) string {
	return `"` + s + `"`
}

// BuildTestCommand assembles the `npx playwright test` line.
//
// Multi-file targets are filtered to TestSuffixes. Single targets are used as
// given unless cfg.FilterSingleTarget is set.
//
// Parameters:
//   - t: The resolved target
//   - root: Workspace root used for relative paths
//   - cfg: Settings snapshot for this invocation
//   - repeat: Repeat count from the prompt or caller
//
// Returns:
//   - string: The command line
//   - error: ErrNoTarget or ErrNoMatchingFiles
func BuildTestCommand(t Target, root string, cfg settings.RunConfig, repeat RepeatCount) (string, error) {
	if len(t.Paths) == 0 {
		return "", ErrNoTarget
	}

	paths := t.Paths
	if t.Multi || cfg.FilterSingleTarget {
		paths = FilterTestFiles(paths)
		if len(paths) == 0 {
			return "", ErrNoMatchingFiles
		}
	} else if strings.TrimSpace(paths[0]) == "" {
		return "", ErrNoTarget
	}

	quoted := make([]string, 0, len(paths))
	for _, p := range paths {
		quoted = append(quoted, quote(RelativePath(root, p)))
	}

	var b strings.Builder
	b.WriteString(TestCommand)
	b.WriteString(" ")
	b.WriteString(strings.Join(quoted, " "))
	fmt.Fprintf(&b, " --config %s", quote(cfg.ConfigFileOrDefault()))

	if strings.TrimSpace(cfg.Project) != "" {
		fmt.Fprintf(&b, " --project %s", cfg.Project)
	}
	if n, ok := repeat.Value(); ok && n > 1 {
		fmt.Fprintf(&b, " --repeat-each %d", n)
	}

	return b.String(), nil
}

// LookupFunc resolves an environment variable, like os.LookupEnv.
type LookupFunc func(name string) (string, bool)

var envNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ResolveRecorderTarget returns the trimmed recorder target. With
// cfg.CodegenURLFromEnv, an identifier-shaped value that names a set
// environment variable is replaced by that variable's value.
//
// Parameters:
//   - cfg: Settings snapshot
//   - lookup: Environment lookup (may be nil)
//
// Returns:
//   - string: The target, empty when none is configured
func ResolveRecorderTarget(cfg settings.RunConfig, lookup LookupFunc) string {
	target := strings.TrimSpace(cfg.CodegenURL)
	if target == "" || !cfg.CodegenURLFromEnv || lookup == nil {
		return target
	}
	if strings.Contains(target, "://") || strings.Contains(target, "/") || !envNamePattern.MatchString(target) {
		return target
	}
	if v, ok := lookup(target); ok {
		return strings.TrimSpace(v)
	}
	return target
}

// BuildRecorderCommand assembles the `npx playwright codegen` line. The target
// is appended as one double-quoted argument with inner quotes escaped.
//
// Parameters:
//   - cfg: Settings snapshot
//   - lookup: Environment lookup used when cfg.CodegenURLFromEnv is set
//
// Returns:
//   - string: The command line
func BuildRecorderCommand(cfg settings.RunConfig, lookup LookupFunc) string {
	target := ResolveRecorderTarget(cfg, lookup)
	if target == "" {
		return RecorderCommand
	}
	return RecorderCommand + " " + quote(strings.ReplaceAll(target, `"`, `\"`))
}
