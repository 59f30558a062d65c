package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specfleet/specfleet/internal/artifact"
)

func ref(path string) *artifact.Ref {
	return &artifact.Ref{Path: path, Valid: true}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  artifact.Set
		want Stage
	}{
		{
			name: "nothing",
			set:  artifact.Set{},
			want: Bootstrap,
		},
		{
			name: "constitution only",
			set:  artifact.Set{Constitution: ref("c")},
			want: Specify,
		},
		{
			name: "constitution and spec",
			set:  artifact.Set{Constitution: ref("c"), Specification: ref("s")},
			want: Plan,
		},
		{
			name: "through plan",
			set:  artifact.Set{Constitution: ref("c"), Specification: ref("s"), Plan: ref("p")},
			want: Tasks,
		},
		{
			name: "all artifacts, no implementation",
			set: artifact.Set{
				Constitution: ref("c"), Specification: ref("s"),
				Plan: ref("p"), TaskList: ref("t"),
			},
			want: Implement,
		},
		{
			// Presence is checked in strict order: a task list without
			// a spec still reads as Specify.
			name: "task list but no spec",
			set:  artifact.Set{Constitution: ref("c"), TaskList: ref("t")},
			want: Specify,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Detect(tt.set, KindUnknown, t.TempDir())
			if got != tt.want {
				t.Errorf("Detect() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectTestStage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "main.rs"), []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	set := artifact.Set{
		Constitution: ref("c"), Specification: ref("s"),
		Plan: ref("p"), TaskList: ref("t"),
	}
	if got := Detect(set, KindRust, dir); got != Test {
		t.Errorf("Detect() = %s, want %s", got, Test)
	}
}

func TestNextActionTableExhaustive(t *testing.T) {
	t.Parallel()

	for _, s := range All {
		action, ok := nextActions[s]
		if !ok {
			t.Errorf("stage %s has no next action", s)
			continue
		}
		if s != Done && action.Command == "" {
			t.Errorf("stage %s has an empty command", s)
		}
		if Description(s) == string(s) {
			t.Errorf("stage %s has no description", s)
		}
	}
}

func TestNextActionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stage     Stage
		command   string
		automated bool
		risk      AutomationLevel
	}{
		{Bootstrap, "create-constitution", false, L2},
		{Specify, "create-specification", false, L2},
		{Plan, "create-plan", false, L2},
		{Tasks, "generate-tasks", true, L1},
		{Implement, "begin-implementation", false, L3},
		{Test, "run-tests", true, L1},
		{Review, "review-code", false, L1},
		{Done, "", false, L0},
	}

	for _, tt := range tests {
		got := Next(tt.stage)
		if got.Command != tt.command {
			t.Errorf("%s command = %q, want %q", tt.stage, got.Command, tt.command)
		}
		if got.Automated != tt.automated {
			t.Errorf("%s automated = %t, want %t", tt.stage, got.Automated, tt.automated)
		}
		if got.RiskLevel != tt.risk {
			t.Errorf("%s risk = %s, want %s", tt.stage, got.RiskLevel, tt.risk)
		}
	}
}

func TestNeedsHumanAttention(t *testing.T) {
	t.Parallel()

	want := map[Stage]bool{
		Bootstrap: true,
		Specify:   true,
		Plan:      true,
		Tasks:     false,
		Implement: false,
		Test:      false,
		Review:    true,
		Done:      false,
	}
	for _, s := range All {
		if got := NeedsHumanAttention(s); got != want[s] {
			t.Errorf("NeedsHumanAttention(%s) = %t, want %t", s, got, want[s])
		}
	}
}
