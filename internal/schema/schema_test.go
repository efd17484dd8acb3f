package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/settings"
)

func testRoot() *cobra.Command {
	root := &cobra.Command{Use: "pwrun", Short: "Run Playwright"}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging")

	test := &cobra.Command{
		Use:     "test [files...]",
		Short:   "Run tests",
		Example: "# one file\npwrun test a.spec.ts\n\npwrun test a.spec.ts --repeat 3",
		Run:     func(*cobra.Command, []string) {},
	}
	test.Flags().Int("repeat", 0, "Repeat each test")
	test.Flags().Bool("prompt-repeat", false, "Ask for the count")
	test.Flags().String("secret", "", "hidden")
	_ = test.Flags().MarkHidden("secret")
	test.MarkFlagsMutuallyExclusive("repeat", "prompt-repeat")

	config := &cobra.Command{Use: "config", Short: "Settings"}
	config.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List settings",
		Long:  "List every setting.\n\nEXAMPLES:\n  pwrun config list          # table\n  pwrun config list --json",
		Run:   func(*cobra.Command, []string) {},
	})

	root.AddCommand(test, config)
	return root
}

func TestGetCLISchema(t *testing.T) {
	s := GetCLISchema(testRoot(), "1.2.3")

	if s.Name != "pwrun" || s.Version != "1.2.3" {
		t.Errorf("Name/Version = %q/%q", s.Name, s.Version)
	}
	if len(s.GlobalFlags) != 1 || s.GlobalFlags[0].Name != "debug" {
		t.Errorf("GlobalFlags = %+v", s.GlobalFlags)
	}

	var test, config *CommandInfo
	for i := range s.Commands {
		switch s.Commands[i].Path {
		case "test":
			test = &s.Commands[i]
		case "config":
			config = &s.Commands[i]
		}
	}
	if test == nil || config == nil {
		t.Fatalf("Commands = %+v", s.Commands)
	}
	if len(test.Flags) != 2 {
		t.Fatalf("test flags = %+v, hidden flags must be skipped", test.Flags)
	}
	for _, f := range test.Flags {
		want := map[string]string{"repeat": "prompt-repeat", "prompt-repeat": "repeat"}[f.Name]
		if len(f.ExclusiveWith) != 1 || f.ExclusiveWith[0] != want {
			t.Errorf("%s ExclusiveWith = %v, want [%s]", f.Name, f.ExclusiveWith, want)
		}
	}
	if len(test.Examples) != 2 {
		t.Errorf("Examples = %v", test.Examples)
	}
	if !test.Runnable || config.Runnable {
		t.Errorf("Runnable: test=%v config=%v", test.Runnable, config.Runnable)
	}
	if len(config.Subcommands) != 1 || config.Subcommands[0].Path != "config list" {
		t.Fatalf("Subcommands = %+v", config.Subcommands)
	}
	list := config.Subcommands[0]
	if list.Long != "List every setting." {
		t.Errorf("Long = %q, examples must be split out", list.Long)
	}
	if len(list.Examples) != 2 || list.Examples[0] != "pwrun config list" {
		t.Errorf("list Examples = %q", list.Examples)
	}

	md := ToMarkdown(s)
	for _, want := range []string{"# pwrun CLI Reference", "### `test`", "#### `config list`", "`--repeat`", "(not with --prompt-repeat)"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestGetSettingsSchema(t *testing.T) {
	s := GetSettingsSchema()
	if len(s.Properties) != len(settings.Definitions) {
		t.Fatalf("properties = %d, want %d", len(s.Properties), len(settings.Definitions))
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	props := decoded["properties"].(map[string]interface{})
	repeat := props["playwright-file-test-runner.repeatEach"].(map[string]interface{})
	if repeat["type"] != "integer" || repeat["minimum"] != float64(0) || repeat["default"] != float64(3) {
		t.Errorf("repeatEach = %v", repeat)
	}
	cfg := props["playwright-file-test-runner.configFile"].(map[string]interface{})
	if cfg["default"] != "playwright.config.ts" {
		t.Errorf("configFile default = %v", cfg["default"])
	}

	if md := SettingsMarkdown(); !strings.Contains(md, "`playwright-file-test-runner.codegenURL`") {
		t.Errorf("settings markdown missing codegenURL:\n%s", md)
	}
}
