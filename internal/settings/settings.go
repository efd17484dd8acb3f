// Package settings provides the namespaced run configuration.
//
// Settings live in editor-style JSON documents with flat, dotted keys such as
// "playwright-file-test-runner.configFile". A workspace document
// (.vscode/settings.json) overrides the user document. Every invocation loads a
// fresh snapshot; nothing is cached between calls.
package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Namespace is the prefix shared by every setting key.
const Namespace = "playwright-file-test-runner"

// Setting keys, relative to Namespace.
const (
	KeyConfigFile           = "configFile"
	KeyProject              = "project"
	KeyRepeatEach           = "repeatEach"
	KeyCodegenURL           = "codegenURL"
	KeyFilterSingleTarget   = "filterSingleTarget"
	KeyCodegenURLFromEnv    = "codegenURLFromEnv"
	KeyReportSettingsErrors = "reportSettingsErrors"
)

// DefaultConfigFile is used when configFile is unset or empty.
const DefaultConfigFile = "playwright.config.ts"

// DefaultRepeatEach is the repeat count offered when none has been saved.
const DefaultRepeatEach = 3

// RunConfig is a read-only snapshot of the settings for one invocation.
type RunConfig struct {
	// ConfigFile is the raw configFile value (may be empty).
	ConfigFile string

	// Project is the optional project filter.
	Project string

	// RepeatEach is the persisted repeat count, nil when never saved.
	RepeatEach *int

	// CodegenURL is the raw recorder target.
	CodegenURL string

	// FilterSingleTarget applies the test-suffix filter to single targets.
	FilterSingleTarget bool

	// CodegenURLFromEnv resolves CodegenURL as an environment variable name.
	CodegenURLFromEnv bool

	// ReportSettingsErrors surfaces repeat-count persistence failures.
	ReportSettingsErrors bool
}

// ConfigFileOrDefault returns ConfigFile, or DefaultConfigFile when it is empty.
//
// Returns:
//   - string: The config file to pass to the test runner
func (c RunConfig) ConfigFileOrDefault() string {
	if c.ConfigFile == "" {
		return DefaultConfigFile
	}
	return c.ConfigFile
}

// Definition describes one setting for validation and schema output.
type Definition struct {
	// Key is the key relative to Namespace.
	Key string `json:"key"`

	// Type is the JSON type: "string", "integer" or "boolean".
	Type string `json:"type"`

	// Default is the value used when the key is absent.
	Default interface{} `json:"default,omitempty"`

	// Minimum is the lower bound for integer settings.
	Minimum *int `json:"minimum,omitempty"`

	// Description is shown in schema output and `pwrun config list`.
	Description string `json:"description"`
}

// FullKey returns the namespaced key, e.g. "playwright-file-test-runner.project".
func (d Definition) FullKey() string {
	return Namespace + "." + d.Key
}

var zero = 0

// Definitions lists every supported setting in display order.
var Definitions = []Definition{
	{
		Key:         KeyConfigFile,
		Type:        "string",
		Default:     DefaultConfigFile,
		Description: "Playwright config file passed as --config, relative to the workspace root.",
	},
	{
		Key:         KeyProject,
		Type:        "string",
		Description: "Playwright project passed as --project. Left out when blank.",
	},
	{
		Key:         KeyRepeatEach,
		Type:        "integer",
		Default:     DefaultRepeatEach,
		Minimum:     &zero,
		Description: "Repeat count remembered by the repeat prompt. Values of 0 or 1 run each test once.",
	},
	{
		Key:         KeyCodegenURL,
		Type:        "string",
		Description: "Target URL opened by `npx playwright codegen`. Codegen starts blank when empty.",
	},
	{
		Key:         KeyFilterSingleTarget,
		Type:        "boolean",
		Default:     false,
		Description: "Apply the .spec.ts/.test.ts filter to single-file runs as well as multi-file selections.",
	},
	{
		Key:         KeyCodegenURLFromEnv,
		Type:        "boolean",
		Default:     false,
		Description: "Treat codegenURL as an environment variable name when it looks like an identifier.",
	},
	{
		Key:         KeyReportSettingsErrors,
		Type:        "boolean",
		Default:     false,
		Description: "Show a warning when the repeat count cannot be saved instead of ignoring the failure.",
	},
}

// Lookup finds the definition for a key, with or without the namespace prefix.
//
// Parameters:
//   - key: Setting key ("project" or "playwright-file-test-runner.project")
//
// Returns:
//   - Definition: The matching definition
//   - bool: False if the key is unknown
func Lookup(key string) (Definition, bool) {
	short := NormalizeKey(key)
	for _, d := range Definitions {
		if d.Key == short {
			return d, true
		}
	}
	return Definition{}, false
}

// NormalizeKey strips the namespace prefix from a key.
func NormalizeKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), Namespace+".")
}

// ParseValue converts command-line text into a typed value for a setting.
//
// Parameters:
//   - key: Setting key, with or without namespace
//   - text: Raw value text
//
// Returns:
//   - interface{}: string, int or bool depending on the definition
//   - error: Unknown key, or a value that does not fit the definition
func ParseValue(key, text string) (interface{}, error) {
	def, ok := Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	switch def.Type {
	case "boolean":
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", def.FullKey(), text)
		}
		return b, nil
	case "integer":
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", def.FullKey(), text)
		}
		if def.Minimum != nil && n < *def.Minimum {
			return nil, fmt.Errorf("%s must be >= %d, got %d", def.FullKey(), *def.Minimum, n)
		}
		return n, nil
	default:
		return text, nil
	}
}
