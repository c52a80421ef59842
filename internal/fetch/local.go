// Package fetch provides the content fetchers behind the exploration tree:
// a rooted local filesystem reader and a GitHub API client with conditional
// requests backed by the HTTP cache tier.
package fetch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repolens/internal/errors"
)

// skippedDirs are never listed; they dominate path counts without ever being
// interesting exploration targets.
var skippedDirs = map[string]struct{}{
	"node_modules": {}, "vendor": {}, "__pycache__": {},
	"dist": {}, "build": {},
}

// Local reads files from a directory subtree
type Local struct {
	root string
}

// NewLocal creates a fetcher rooted at root
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// ListPaths walks the root and returns all file paths relative to it, with
// forward slashes, sorted. Hidden directories and dependency directories are
// skipped.
func (l *Local) ListPaths() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		name := d.Name()
		if d.IsDir() {
			if path == l.root {
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := skippedDirs[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		rel, relErr := filepath.Rel(l.root, path)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.FetchFailed, "walking local root", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// ReadFile reads one file by its slash-relative path
func (l *Local) ReadFile(relPath string) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(relPath))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", errors.Wrap(errors.FetchFailed, "reading "+relPath, err)
	}
	return string(data), nil
}
