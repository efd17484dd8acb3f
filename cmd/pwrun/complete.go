// Package main provides the complete command for editor integrations.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/revyl/pwrun/internal/completion"
	"github.com/revyl/pwrun/internal/settings"
)

var (
	completeFile      string
	completeLine      int
	completeCharacter int
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Suggest Playwright config files for the configFile setting",
	Long: `Print completion items for the configFile value at a position in a
settings document. Lines and characters are zero-based; characters count
UTF-16 code units. The output is always a JSON array.

Use --file - to read the document from stdin.

EXAMPLES:
  pwrun complete --line 3 --character 45
  pwrun complete --file .vscode/settings.json --line 1 --character 40`,
	Args: cobra.NoArgs,
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeFile, "file", "", "Settings document (default: <workspace>/.vscode/settings.json)")
	completeCmd.Flags().IntVar(&completeLine, "line", 0, "Zero-based line of the cursor")
	completeCmd.Flags().IntVar(&completeCharacter, "character", 0, "Zero-based UTF-16 character of the cursor")
}

// documentLine returns line n of text. Missing lines are empty.
func documentLine(text string, n int) string {
	lines := strings.Split(text, "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n], "\r")
}

func readDocument(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func runComplete(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	path := completeFile
	if path == "" {
		path = settings.WorkspacePath(ws.Root)
	}
	text, err := readDocument(path)
	if err != nil {
		return err
	}

	req := completion.Request{
		Line:       documentLine(text, completeLine),
		LineNumber: completeLine,
		Character:  completeCharacter,
	}
	items := completion.Complete(cmd.Context(), req, ws.Root, completion.WalkFinder{})
	if items == nil {
		items = []completion.Item{}
	}
	return printJSON(items)
}
