package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file with parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestResolveDirectLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "constitution.md"), "# Constitution\n")
	writeFile(t, filepath.Join(dir, "spec.md"), "# Spec\n")
	writeFile(t, filepath.Join(dir, "plan.md"), "# Plan\n")
	writeFile(t, filepath.Join(dir, "tasks.md"), "- [ ] one\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if set.Constitution == nil || set.Specification == nil || set.Plan == nil || set.TaskList == nil {
		t.Fatalf("expected all four artifacts, got %+v", set)
	}
	if !set.Specification.Valid {
		t.Error("spec.md with content should be valid")
	}
}

func TestResolveMemoryConstitutionFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "memory", "constitution.md"), "# Constitution\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if set.Constitution == nil {
		t.Fatal("memory/constitution.md not found")
	}
	if want := filepath.Join(dir, "memory", "constitution.md"); set.Constitution.Path != want {
		t.Errorf("constitution path = %s, want %s", set.Constitution.Path, want)
	}
}

func TestResolveDirectConstitutionPreferred(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "constitution.md"), "top\n")
	writeFile(t, filepath.Join(dir, "memory", "constitution.md"), "nested\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := filepath.Join(dir, "constitution.md"); set.Constitution.Path != want {
		t.Errorf("constitution path = %s, want %s", set.Constitution.Path, want)
	}
}

func TestResolveDirectWinsOverVersioned(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "spec.md"), "direct spec\n")
	writeFile(t, filepath.Join(dir, "001-feature", "spec.md"), "feature spec\n")
	writeFile(t, filepath.Join(dir, "001-feature", "plan.md"), "feature plan\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	// Direct layout wins outright: the feature plan must not leak in.
	if want := filepath.Join(dir, "spec.md"); set.Specification.Path != want {
		t.Errorf("spec path = %s, want %s", set.Specification.Path, want)
	}
	if set.Plan != nil {
		t.Errorf("plan should be absent, got %s", set.Plan.Path)
	}
}

func TestResolveVersionedNewestWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "001-login", "spec.md"), "old spec\n")
	writeFile(t, filepath.Join(dir, "001-login", "plan.md"), "old plan\n")
	writeFile(t, filepath.Join(dir, "001-login", "tasks.md"), "- [ ] old\n")
	writeFile(t, filepath.Join(dir, "002-search", "spec.md"), "new spec\n")
	writeFile(t, filepath.Join(dir, "002-search", "tasks.md"), "- [ ] new\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if want := filepath.Join(dir, "002-search", "spec.md"); set.Specification.Path != want {
		t.Errorf("spec path = %s, want %s", set.Specification.Path, want)
	}
	// 002 has no plan, so 001's plan fills the slot.
	if want := filepath.Join(dir, "001-login", "plan.md"); set.Plan.Path != want {
		t.Errorf("plan path = %s, want %s", set.Plan.Path, want)
	}
	// Task files are not merged; the newest collected one is surfaced.
	if want := filepath.Join(dir, "002-search", "tasks.md"); set.TaskList.Path != want {
		t.Errorf("tasks path = %s, want %s", set.TaskList.Path, want)
	}
}

func TestResolveVersionedParentConstitution(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	specs := filepath.Join(project, "specs")
	writeFile(t, filepath.Join(specs, "001-feature", "spec.md"), "spec\n")
	writeFile(t, filepath.Join(project, ".specify", "memory", "constitution.md"), "# Constitution\n")

	set, err := Resolve(specs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if set.Constitution == nil {
		t.Fatal("constitution from parent .specify/memory not found")
	}
}

func TestResolveNonNumberedDirsIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "feature-x", "spec.md"), "spec\n")
	writeFile(t, filepath.Join(dir, "ab1-feature", "spec.md"), "spec\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if set.Any() {
		t.Errorf("non-numbered directories should yield an empty set, got %+v", set)
	}
}

func TestResolveProjectTwoRootPreference(t *testing.T) {
	t.Parallel()

	t.Run("specs wins when populated", func(t *testing.T) {
		t.Parallel()
		project := t.TempDir()
		writeFile(t, filepath.Join(project, "specs", "spec.md"), "visible\n")
		writeFile(t, filepath.Join(project, ".specify", "spec.md"), "hidden\n")

		set, err := ResolveProject(project)
		if err != nil {
			t.Fatalf("resolve project: %v", err)
		}
		if want := filepath.Join(project, "specs", "spec.md"); set.Specification.Path != want {
			t.Errorf("spec path = %s, want %s", set.Specification.Path, want)
		}
	})

	t.Run("falls back to .specify when specs is empty", func(t *testing.T) {
		t.Parallel()
		project := t.TempDir()
		if err := os.MkdirAll(filepath.Join(project, "specs"), 0o755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(project, ".specify", "plan.md"), "hidden plan\n")

		set, err := ResolveProject(project)
		if err != nil {
			t.Fatalf("resolve project: %v", err)
		}
		if set.Plan == nil {
			t.Fatal("expected plan from .specify fallback")
		}
	})

	t.Run("neither root yields empty set", func(t *testing.T) {
		t.Parallel()
		set, err := ResolveProject(t.TempDir())
		if err != nil {
			t.Fatalf("resolve project: %v", err)
		}
		if set.Any() {
			t.Errorf("expected empty set, got %+v", set)
		}
	})
}

func TestRefValidity(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "spec.md"), "   \n\t\n")

	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if set.Specification == nil {
		t.Fatal("whitespace-only file should still be present")
	}
	if set.Specification.Valid {
		t.Error("whitespace-only file should not be valid")
	}
}
