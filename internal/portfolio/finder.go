package portfolio

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// ignoreDirs are never descended into during project discovery.
var ignoreDirs = map[string]bool{
	"node_modules": true,
	"target":       true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// Finder locates project roots: directories containing a .specify or specs
// subdirectory.
type Finder struct {
	Root     string
	MaxDepth int
}

// FindProjects walks the tree below Root up to MaxDepth and returns the
// parent directories of every .specify and specs directory found, in walk
// order, deduplicated. A specs directory nested inside a .specify tree does
// not mark a project. The second return value counts directories visited.
func (f *Finder) FindProjects() (projects []string, visited int, err error) {
	seen := map[string]bool{}

	err = filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			// Unreadable entries are skipped, not fatal; per-project
			// failures surface later in scan stats.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		visited++

		if ignoreDirs[d.Name()] {
			return filepath.SkipDir
		}

		if depth(f.Root, path) > f.MaxDepth {
			return filepath.SkipDir
		}

		if d.Name() == ".specify" || d.Name() == "specs" {
			if d.Name() == "specs" && insideSpecify(path) {
				return nil
			}
			parent := filepath.Dir(path)
			if insideSpecify(parent) {
				return nil
			}
			if !seen[parent] {
				seen[parent] = true
				projects = append(projects, parent)
			}
		}
		return nil
	})
	if err != nil {
		return nil, visited, err
	}
	return projects, visited, nil
}

// depth counts path separators between root and path.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// insideSpecify reports whether the path has a .specify ancestor component.
func insideSpecify(path string) bool {
	return strings.Contains(path, string(filepath.Separator)+".specify"+string(filepath.Separator))
}
