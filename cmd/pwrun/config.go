// Package main provides commands for the playwright-file-test-runner settings.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/settings"
	"github.com/revyl/pwrun/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit Playwright runner settings",
	Long: `View and edit the playwright-file-test-runner settings.

Values are read from <workspace>/.vscode/settings.json first, then from the
user settings document. "set" always writes the user document.

EXAMPLES:
  pwrun config list
  pwrun config get configFile
  pwrun config set project chromium
  pwrun config set repeatEach 5
  pwrun config path`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its value and origin",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a setting to the user settings document",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the settings document paths",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}

// settingOutput is one setting in --json output.
type settingOutput struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Scope string      `json:"scope"`
}

func newSettingOutput(v settings.Value) settingOutput {
	out := settingOutput{Key: v.Definition.FullKey(), Scope: string(v.Scope)}
	if v.Scope == settings.ScopeDefault {
		out.Value = v.Definition.Default
	} else {
		out.Value = v.Result.Value()
	}
	return out
}

func runConfigList(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	values, err := ws.Store.List()
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		out := make([]settingOutput, 0, len(values))
		for _, v := range values {
			out = append(out, newSettingOutput(v))
		}
		return printJSON(out)
	}

	table := ui.NewTable("KEY", "VALUE", "FROM")
	table.SetMaxWidth(1, 48)
	for _, v := range values {
		table.AddRow(v.Definition.Key, v.String(), string(v.Scope))
	}
	table.Render()
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	v, err := ws.Store.Inspect(args[0])
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(newSettingOutput(v))
	}
	fmt.Println(v.String())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	value, err := settings.ParseValue(args[0], args[1])
	if err != nil {
		return err
	}

	res := ws.Store.UpdateGlobal(args[0], value)
	if !res.OK() {
		return fmt.Errorf("failed to save %s: %w", settings.Namespace+"."+res.Key, res.Err)
	}

	if jsonOutput(cmd) {
		return printJSON(map[string]interface{}{
			"key":   settings.Namespace + "." + res.Key,
			"value": value,
			"path":  res.Path,
		})
	}
	ui.PrintSuccess("Set %s = %v", res.Key, value)
	ui.PrintDim("Saved to %s", res.Path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	if jsonOutput(cmd) {
		return printJSON(map[string]string{
			"workspace": ws.Store.WorkspacePath,
			"user":      ws.Store.UserPath,
		})
	}
	fmt.Printf("workspace: %s\n", ws.Store.WorkspacePath)
	fmt.Printf("user:      %s\n", ws.Store.UserPath)
	return nil
}
