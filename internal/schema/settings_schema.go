package schema

import (
	"fmt"
	"strings"

	"github.com/revyl/pwrun/internal/settings"
)

// SettingsProperty describes one setting in the editor configuration shape.
type SettingsProperty struct {
	Type        string      `json:"type"`
	Default     interface{} `json:"default,omitempty"`
	Minimum     *int        `json:"minimum,omitempty"`
	Description string      `json:"description"`
}

// SettingsSchema mirrors an editor extension's contributes.configuration block.
type SettingsSchema struct {
	Title      string                      `json:"title"`
	Properties map[string]SettingsProperty `json:"properties"`
}

// GetSettingsSchema builds the settings schema from settings.Definitions.
func GetSettingsSchema() *SettingsSchema {
	props := make(map[string]SettingsProperty, len(settings.Definitions))
	for _, def := range settings.Definitions {
		props[def.FullKey()] = SettingsProperty{
			Type:        def.Type,
			Default:     def.Default,
			Minimum:     def.Minimum,
			Description: def.Description,
		}
	}
	return &SettingsSchema{
		Title:      "Playwright File Test Runner",
		Properties: props,
	}
}

// SettingsMarkdown renders the settings as a Markdown table in definition order.
func SettingsMarkdown() string {
	var sb strings.Builder
	sb.WriteString("## Settings\n\n")
	sb.WriteString("Read from `.vscode/settings.json` in the workspace, then the user settings file.\n\n")
	sb.WriteString("| Key | Type | Default | Description |\n|-----|------|---------|-------------|\n")
	for _, def := range settings.Definitions {
		var dflt string
		if def.Default != nil {
			dflt = fmt.Sprintf("`%v`", def.Default)
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", def.FullKey(), def.Type, dflt, def.Description)
	}
	sb.WriteString("\n")
	return sb.String()
}
