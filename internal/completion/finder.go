package completion

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// ConfigFileGlob is matched against base names during the search.
const ConfigFileGlob = "playwright*.config.ts"

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// SearchResult holds workspace-relative, slash-separated paths or the error
// that stopped the search.
type SearchResult struct {
	Files []string
	Err   error
}

// Finder searches a workspace for Playwright config files.
type Finder interface {
	FindConfigFiles(ctx context.Context, root string) SearchResult
}

// WalkFinder searches the file system under root.
type WalkFinder struct{}

// FindConfigFiles walks root and returns matching files sorted by path.
// Unreadable entries below root are skipped.
func (WalkFinder) FindConfigFiles(ctx context.Context, root string) SearchResult {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Debug("Skipping unreadable path", "path", path, "error", err)
			if d == nil || d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(ConfigFileGlob, d.Name()); !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return SearchResult{Err: err}
	}
	sort.Strings(files)
	return SearchResult{Files: files}
}
