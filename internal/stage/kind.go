package stage

import (
	"os"
	"path/filepath"
)

// Kind identifies a project's language ecosystem, detected from toolchain
// signature files.
type Kind string

const (
	KindRust    Kind = "rust"
	KindNode    Kind = "node"
	KindPython  Kind = "python"
	KindGo      Kind = "go"
	KindGeneric Kind = "generic"
	KindUnknown Kind = "unknown"
)

// Kinds lists every project kind.
var Kinds = []Kind{KindRust, KindNode, KindPython, KindGo, KindGeneric, KindUnknown}

// DetectKind inspects a project directory for language-specific manifest
// files. Checks are ordered; the first hit wins.
func DetectKind(dir string) Kind {
	switch {
	case fileExists(filepath.Join(dir, "Cargo.toml")):
		return KindRust
	case fileExists(filepath.Join(dir, "package.json")):
		return KindNode
	case fileExists(filepath.Join(dir, "pyproject.toml")) || fileExists(filepath.Join(dir, "setup.py")):
		return KindPython
	case fileExists(filepath.Join(dir, "go.mod")):
		return KindGo
	case fileExists(filepath.Join(dir, "src")) || fileExists(filepath.Join(dir, "lib")):
		return KindGeneric
	}
	return KindUnknown
}

// implProbes maps each kind to the glob patterns that signal implementation
// has begun. Patterns are relative to the project directory. Kinds with no
// probes never report implementation artifacts.
var implProbes = map[Kind][]string{
	KindRust:    {"src/*.rs"},
	KindNode:    {"src/*.js", "src/*.ts", "index.js"},
	KindPython:  {"src/*.py", "*.py"},
	KindGo:      {"*.go", "cmd/*/*.go", "internal/*/*.go"},
	KindGeneric: nil,
	KindUnknown: nil,
}

// HasImplementationArtifacts reports whether the project directory contains
// source files matching the kind's implementation probes.
func HasImplementationArtifacts(dir string, kind Kind) bool {
	for _, pattern := range implProbes[kind] {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
