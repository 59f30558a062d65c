package stage

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []string
		want  Kind
	}{
		{"rust", []string{"Cargo.toml"}, KindRust},
		{"node", []string{"package.json"}, KindNode},
		{"python pyproject", []string{"pyproject.toml"}, KindPython},
		{"python setup", []string{"setup.py"}, KindPython},
		{"go", []string{"go.mod"}, KindGo},
		{"generic src", []string{"src/main.c"}, KindGeneric},
		{"generic lib", []string{"lib/util.sh"}, KindGeneric},
		{"empty", nil, KindUnknown},
		// Ordered checks: Cargo.toml beats package.json.
		{"rust beats node", []string{"Cargo.toml", "package.json"}, KindRust},
		{"node beats go", []string{"package.json", "go.mod"}, KindNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, filepath.Join(dir, f))
			}
			if got := DetectKind(dir); got != tt.want {
				t.Errorf("DetectKind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHasImplementationArtifacts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		kind  Kind
		files []string
		want  bool
	}{
		{"rust with source", KindRust, []string{"src/main.rs"}, true},
		{"rust without source", KindRust, []string{"Cargo.toml"}, false},
		{"node index", KindNode, []string{"index.js"}, true},
		{"node src ts", KindNode, []string{"src/app.ts"}, true},
		{"python top-level", KindPython, []string{"app.py"}, true},
		{"go cmd", KindGo, []string{"cmd/tool/main.go"}, true},
		{"go internal", KindGo, []string{"internal/core/core.go"}, true},
		{"generic never", KindGeneric, []string{"src/main.c"}, false},
		{"unknown never", KindUnknown, []string{"whatever.txt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, filepath.Join(dir, f))
			}
			if got := HasImplementationArtifacts(dir, tt.kind); got != tt.want {
				t.Errorf("HasImplementationArtifacts(%s) = %t, want %t", tt.kind, got, tt.want)
			}
		})
	}
}
