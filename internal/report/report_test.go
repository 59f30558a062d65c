package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specfleet/specfleet/internal/ledger"
	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/score"
	"github.com/specfleet/specfleet/internal/stage"
)

func sampleSnapshot() *portfolio.Snapshot {
	generated := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	projects := []portfolio.Record{
		{
			ID:            "billing",
			Path:          "/work/billing",
			Stage:         stage.Plan,
			NextAction:    stage.Next(stage.Plan),
			RequiresHuman: []score.Requirement{score.NeedsInput},
			Priority:      82.3,
			Tasks:         ledger.Ledger{Total: 5, Completed: 1, Blocked: 1},
			LastUpdated:   generated.Add(-72 * time.Hour),
			Kind:          stage.KindGo,
		},
		{
			ID:          "website",
			Path:        "/work/website",
			Stage:       stage.Implement,
			NextAction:  stage.Next(stage.Implement),
			Priority:    34.0,
			Tasks:       ledger.Ledger{Total: 10, Completed: 9, ParallelMarked: 2},
			LastUpdated: generated.Add(-2 * time.Hour),
			Kind:        stage.KindNode,
		},
	}
	snap := &portfolio.Snapshot{
		GeneratedAt: generated,
		ScanStats: portfolio.ScanStats{
			DirectoriesScanned: 40,
			ProjectsFound:      2,
			ScanTimeMillis:     17,
			Errors:             []string{"error processing /work/legacy: git exploded"},
		},
		Projects: projects,
	}
	snap.Summary = portfolio.Summarize(projects, 50)
	return snap
}

func TestMarkdownReportSections(t *testing.T) {
	t.Parallel()

	out, err := (&MarkdownReport{}).Render(sampleSnapshot())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"# Portfolio Status Report",
		"## Summary",
		"- **Total Projects**: 2",
		"- **Tasks Progress**: 10/15 completed (67%)",
		"## Stage Distribution",
		"| plan | 1 |",
		"| implement | 1 |",
		"## High Priority Projects",
		"## Project Details",
		"### /work/billing",
		"- **Git Branch**",
		"## Errors Encountered",
		"git exploded",
		"*Generated by specfleet*",
	} {
		if want == "- **Git Branch**" {
			// Neither sample project is a repository; the git lines
			// must be absent, not defaulted.
			if strings.Contains(out, want) {
				t.Errorf("report contains %q for non-repository project", want)
			}
			continue
		}
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// Highest priority first in the top table.
	if strings.Index(out, "billing") > strings.Index(out, "website") {
		t.Error("projects not ordered by descending priority")
	}
}

func TestMarkdownReportEmptyPortfolio(t *testing.T) {
	t.Parallel()

	snap := &portfolio.Snapshot{GeneratedAt: time.Now().UTC()}
	out, err := (&MarkdownReport{}).Render(snap)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "No projects found.") {
		t.Error("empty portfolio placeholder missing")
	}
}

func TestMarkdownTopPriorityCapped(t *testing.T) {
	t.Parallel()

	var projects []portfolio.Record
	for i := 0; i < 15; i++ {
		projects = append(projects, portfolio.Record{
			ID:       fmt.Sprintf("project-%02d", i),
			Path:     fmt.Sprintf("/work/project-%02d", i),
			Stage:    stage.Implement,
			Priority: float64(100 - i),
		})
	}
	snap := &portfolio.Snapshot{GeneratedAt: time.Now().UTC(), Projects: projects}
	snap.Summary = portfolio.Summarize(projects, 50)

	out, err := (&MarkdownReport{}).Render(snap)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	table := out[strings.Index(out, "## High Priority Projects"):strings.Index(out, "## Project Details")]
	if strings.Contains(table, "project-10") {
		t.Error("top priority table exceeds 10 rows")
	}
	if !strings.Contains(table, "project-09") {
		t.Error("top priority table missing tenth project")
	}
	// Details still list everything.
	if !strings.Contains(out, "### /work/project-14") {
		t.Error("project details missing low-priority project")
	}
}

func TestMarkdownDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	firstID := snap.Projects[0].ID
	if _, err := (&MarkdownReport{}).Render(snap); err != nil {
		t.Fatal(err)
	}
	if snap.Projects[0].ID != firstID {
		t.Error("render reordered the snapshot's project slice")
	}
}

func TestJSONReportRoundTrip(t *testing.T) {
	t.Parallel()

	snap := sampleSnapshot()
	out, err := (&JSONReport{}).Render(snap)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("JSON report missing trailing newline")
	}

	var decoded portfolio.Snapshot
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Summary.TotalProjects != 2 || len(decoded.Projects) != 2 {
		t.Errorf("decoded snapshot = %+v", decoded.Summary)
	}
}

func TestFormatByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"markdown", "md", "json"} {
		if _, err := FormatByName(name); err != nil {
			t.Errorf("FormatByName(%q) = %v", name, err)
		}
	}
	if _, err := FormatByName("yaml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reports", "STATUS.md")
	if err := Save(&MarkdownReport{}, sampleSnapshot(), path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "# Portfolio Status Report") {
		t.Error("saved report content missing header")
	}
}

func TestPriorityEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		priority float64
		want     string
	}{
		{90, "🔴"},
		{70.5, "🔴"},
		{70, "🟡"},
		{41, "🟡"},
		{40, "🟢"},
		{0, "🟢"},
	}
	for _, tt := range tests {
		if got := priorityEmoji(tt.priority); got != tt.want {
			t.Errorf("priorityEmoji(%.1f) = %s, want %s", tt.priority, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 40); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 50)
	got := truncate(long, 40)
	if len(got) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q (len %d)", got, len(got))
	}
}
