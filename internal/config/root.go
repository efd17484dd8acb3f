package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootMarkers identify a workspace root, checked in order at each level.
var rootMarkers = []string{Dir, filepath.Join(".vscode", "settings.json"), "package.json"}

// FindWorkspaceRoot walks up from dir looking for a workspace marker.
//
// Returns the first ancestor (or the directory itself) that contains a .pwrun/
// directory, a .vscode/settings.json file or a package.json file. A bare
// .vscode/ directory, such as the editor's per-user one in $HOME, is not a marker.
//
// Parameters:
//   - dir: Starting directory to search from.
//
// Returns:
//   - string: The workspace root.
//   - error: Error if no marker is found before reaching /.
func FindWorkspaceRoot(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	current := absDir
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(current, marker)); err == nil {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no workspace root found (searched from %s to / for .pwrun/, .vscode/settings.json or package.json)", absDir)
		}
		current = parent
	}
}
