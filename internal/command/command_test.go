package command

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/revyl/pwrun/internal/settings"
)

func ws(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join(string(filepath.Separator), "work", "app"))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

// TestSelectionResolve verifies how primary and selected paths combine.
func TestSelectionResolve(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		want    Target
		wantErr error
	}{
		{name: "nothing selected", sel: Selection{}, wantErr: ErrNoTarget},
		{name: "blank primary", sel: Selection{Primary: "  "}, wantErr: ErrNoTarget},
		{name: "primary only", sel: Selection{Primary: "a.spec.ts"}, want: Single("a.spec.ts")},
		{
			name: "selection wins over primary",
			sel:  Selection{Primary: "a.spec.ts", Selected: []string{"a.spec.ts", "b.test.ts"}},
			want: Multiple("a.spec.ts", "b.test.ts"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Resolve()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Multi != tt.want.Multi || strings.Join(got.Paths, ",") != strings.Join(tt.want.Paths, ",") {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestBuildTestCommand covers the exact command text for each branch.
func TestBuildTestCommand(t *testing.T) {
	root := ws(t)
	abs := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

	tests := []struct {
		name    string
		target  Target
		cfg     settings.RunConfig
		repeat  RepeatCount
		want    string
		wantErr error
	}{
		{
			name:   "single file uses default config",
			target: Single(abs("tests/login.spec.ts")),
			want:   `npx playwright test "tests/login.spec.ts" --config "playwright.config.ts"`,
		},
		{
			name:   "single file is not suffix filtered by default",
			target: Single(abs("tests/helpers.ts")),
			want:   `npx playwright test "tests/helpers.ts" --config "playwright.config.ts"`,
		},
		{
			name:    "single file filtered when configured",
			target:  Single(abs("tests/helpers.ts")),
			cfg:     settings.RunConfig{FilterSingleTarget: true},
			wantErr: ErrNoMatchingFiles,
		},
		{
			name:   "multi selection keeps only test files",
			target: Multiple(abs("a.spec.ts"), abs("readme.md"), abs("src/b.test.ts"), abs("c.spec.js")),
			cfg:    settings.RunConfig{ConfigFile: "e2e/playwright.config.ts"},
			want:   `npx playwright test "a.spec.ts" "src/b.test.ts" --config "e2e/playwright.config.ts"`,
		},
		{
			name:    "multi selection without test files",
			target:  Multiple(abs("readme.md"), abs("util.ts")),
			wantErr: ErrNoMatchingFiles,
		},
		{
			name:    "empty multi selection",
			target:  Multiple(),
			wantErr: ErrNoTarget,
		},
		{
			name:   "project is appended unquoted",
			target: Single(abs("a.spec.ts")),
			cfg:    settings.RunConfig{Project: "Mobile Chrome"},
			want:   `npx playwright test "a.spec.ts" --config "playwright.config.ts" --project Mobile Chrome`,
		},
		{
			name:   "blank project is skipped",
			target: Single(abs("a.spec.ts")),
			cfg:    settings.RunConfig{Project: "   "},
			want:   `npx playwright test "a.spec.ts" --config "playwright.config.ts"`,
		},
		{
			name:   "repeat count above one",
			target: Single(abs("a.spec.ts")),
			cfg:    settings.RunConfig{Project: "chromium"},
			repeat: RepeatFromInt(2),
			want:   `npx playwright test "a.spec.ts" --config "playwright.config.ts" --project chromium --repeat-each 2`,
		},
		{
			name:   "path outside workspace stays absolute",
			target: Single(filepath.Join(string(filepath.Separator), "elsewhere", "x.spec.ts")),
			want:   `npx playwright test "` + filepath.Join(string(filepath.Separator), "elsewhere", "x.spec.ts") + `" --config "playwright.config.ts"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildTestCommand(tt.target, root, tt.cfg, tt.repeat)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildTestCommand() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildTestCommand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildTestCommand()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

// TestRepeatClause verifies repeat count coercion.
func TestRepeatClause(t *testing.T) {
	root := ws(t)
	target := Single(filepath.Join(root, "a.spec.ts"))

	tests := []struct {
		name   string
		repeat RepeatCount
		want   string
	}{
		{name: "text zero", repeat: RepeatFromText("0")},
		{name: "int zero", repeat: RepeatFromInt(0)},
		{name: "int one", repeat: RepeatFromInt(1)},
		{name: "non numeric text", repeat: RepeatFromText("abc")},
		{name: "absent", repeat: RepeatCount{}},
		{name: "negative", repeat: RepeatFromInt(-4)},
		{name: "int two", repeat: RepeatFromInt(2), want: " --repeat-each 2"},
		{name: "text five", repeat: RepeatFromText("5"), want: " --repeat-each 5"},
		{name: "text with trailing garbage", repeat: RepeatFromText("7x"), want: " --repeat-each 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildTestCommand(target, root, settings.RunConfig{}, tt.repeat)
			if err != nil {
				t.Fatalf("BuildTestCommand() error = %v", err)
			}
			idx := strings.Index(got, " --repeat-each")
			clause := ""
			if idx >= 0 {
				clause = got[idx:]
			}
			if clause != tt.want {
				t.Errorf("repeat clause = %q, want %q (command %q)", clause, tt.want, got)
			}
		})
	}
}

// TestBuildRecorderCommand covers target quoting and env resolution.
func TestBuildRecorderCommand(t *testing.T) {
	env := map[string]string{"STAGING_URL": "https://staging.example.com"}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	tests := []struct {
		name string
		cfg  settings.RunConfig
		want string
	}{
		{name: "unset target", want: "npx playwright codegen"},
		{name: "blank target", cfg: settings.RunConfig{CodegenURL: "   "}, want: "npx playwright codegen"},
		{name: "url is trimmed and quoted", cfg: settings.RunConfig{CodegenURL: " https://example.com "}, want: `npx playwright codegen "https://example.com"`},
		{name: "inner quotes are escaped", cfg: settings.RunConfig{CodegenURL: `a"b`}, want: `npx playwright codegen "a\"b"`},
		{name: "env name passes through by default", cfg: settings.RunConfig{CodegenURL: "STAGING_URL"}, want: `npx playwright codegen "STAGING_URL"`},
		{
			name: "env name resolved when enabled",
			cfg:  settings.RunConfig{CodegenURL: "STAGING_URL", CodegenURLFromEnv: true},
			want: `npx playwright codegen "https://staging.example.com"`,
		},
		{
			name: "unset env name stays literal",
			cfg:  settings.RunConfig{CodegenURL: "MISSING_URL", CodegenURLFromEnv: true},
			want: `npx playwright codegen "MISSING_URL"`,
		},
		{
			name: "urls are never resolved",
			cfg:  settings.RunConfig{CodegenURL: "http://localhost:3000", CodegenURLFromEnv: true},
			want: `npx playwright codegen "http://localhost:3000"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildRecorderCommand(tt.cfg, lookup); got != tt.want {
				t.Errorf("BuildRecorderCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestParseLeadingInt verifies integer prefix parsing.
func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"3", 3, true},
		{"  12", 12, true},
		{"-2", -2, true},
		{"+4", 4, true},
		{"9 lives", 9, true},
		{"", 0, false},
		{"-", 0, false},
		{"x1", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLeadingInt(tt.in)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("ParseLeadingInt(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
