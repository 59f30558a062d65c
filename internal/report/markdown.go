package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/stage"
)

// MarkdownReport renders the full portfolio status document: summary block,
// stage-distribution table, top-10 priority table, and per-project details.
type MarkdownReport struct{}

// Render produces the markdown status report.
func (r *MarkdownReport) Render(snap *portfolio.Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("snapshot is nil")
	}

	var b strings.Builder

	b.WriteString("# Portfolio Status Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", snap.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	writeSummary(&b, snap)
	writeStageDistribution(&b, snap)

	sorted := byPriority(snap.Projects)
	writeTopPriority(&b, sorted)
	writeProjectDetails(&b, sorted)

	if len(snap.ScanStats.Errors) > 0 {
		b.WriteString("## Errors Encountered\n\n")
		for _, e := range snap.ScanStats.Errors {
			b.WriteString("- " + e + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n*Generated by specfleet*\n")
	return b.String(), nil
}

func writeSummary(b *strings.Builder, snap *portfolio.Snapshot) {
	s := snap.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString(fmt.Sprintf("- **Total Projects**: %d\n", s.TotalProjects))
	b.WriteString(fmt.Sprintf("- **Need Attention**: %d 🚨\n", s.NeedsAttention))
	b.WriteString(fmt.Sprintf("- **Tasks Progress**: %d/%d completed (%.0f%%)\n",
		s.CompletedTasks, s.TotalTasks, completionPct(s.CompletedTasks, s.TotalTasks)))
	b.WriteString(fmt.Sprintf("- **Average Priority**: %.1f\n", s.AvgPriority))
	b.WriteString(fmt.Sprintf("- **Scan Time**: %dms\n\n", snap.ScanStats.ScanTimeMillis))
}

func writeStageDistribution(b *strings.Builder, snap *portfolio.Snapshot) {
	b.WriteString("## Stage Distribution\n\n")
	b.WriteString("| Stage | Count |\n")
	b.WriteString("|-------|-------|\n")
	for _, st := range stage.All {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", st, snap.Summary.ByStage[st]))
	}
	b.WriteString("\n")
}

func writeTopPriority(b *strings.Builder, sorted []portfolio.Record) {
	b.WriteString("## High Priority Projects\n\n")
	if len(sorted) == 0 {
		b.WriteString("No projects found.\n\n")
		return
	}

	b.WriteString("| Priority | Project | Stage | Next Action | Human Needed |\n")
	b.WriteString("|----------|---------|-------|-------------|---------------|\n")
	for i, p := range sorted {
		if i >= 10 {
			break
		}
		human := "No"
		if len(p.RequiresHuman) > 0 {
			human = fmt.Sprintf("Yes (%s)", joinRequirements(p))
		}
		b.WriteString(fmt.Sprintf("| %.1f %s | %s | %s | %s | %s |\n",
			p.Priority, priorityEmoji(p.Priority), p.ID, p.Stage,
			truncate(p.NextAction.Description, 40), human))
	}
	b.WriteString("\n")
}

func writeProjectDetails(b *strings.Builder, sorted []portfolio.Record) {
	b.WriteString("## Project Details\n\n")
	for _, p := range sorted {
		b.WriteString(fmt.Sprintf("### %s\n\n", p.Path))
		b.WriteString(fmt.Sprintf("- **Stage**: %s\n", p.Stage))
		b.WriteString(fmt.Sprintf("- **Priority**: %.1f\n", p.Priority))
		b.WriteString(fmt.Sprintf("- **Type**: %s\n", p.Kind))
		b.WriteString(fmt.Sprintf("- **Last Updated**: %s\n", p.LastUpdated.Format("2006-01-02 15:04 UTC")))

		if p.Repository.IsRepository {
			branch := p.Repository.Branch
			if branch == "" {
				branch = "unknown"
			}
			b.WriteString(fmt.Sprintf("- **Git Branch**: %s\n", branch))
			gitState := "✅ Clean"
			if !p.Repository.Clean {
				gitState = "⚠️ Uncommitted changes"
			}
			b.WriteString(fmt.Sprintf("- **Git Status**: %s\n", gitState))
		}

		b.WriteString(fmt.Sprintf("- **Tasks**: %d/%d completed", p.Tasks.Completed, p.Tasks.Total))
		if p.Tasks.ParallelMarked > 0 {
			b.WriteString(fmt.Sprintf(" (%d parallel)", p.Tasks.ParallelMarked))
		}
		if p.Tasks.Blocked > 0 {
			b.WriteString(fmt.Sprintf(" (%d blocked)", p.Tasks.Blocked))
		}
		b.WriteString("\n")

		b.WriteString(fmt.Sprintf("- **Next Action**: %s\n", p.NextAction.Description))
		if p.NextAction.Command != "" {
			b.WriteString(fmt.Sprintf("  - Command: `%s`\n", p.NextAction.Command))
		}
		automated := "No"
		if p.NextAction.Automated {
			automated = "Yes"
		}
		b.WriteString(fmt.Sprintf("  - Automated: %s\n", automated))

		if len(p.RequiresHuman) > 0 {
			b.WriteString(fmt.Sprintf("- **Requires Human**: %s\n", joinRequirements(p)))
		}
		b.WriteString("\n")
	}
}

// byPriority returns the projects sorted descending by priority without
// mutating the input.
func byPriority(projects []portfolio.Record) []portfolio.Record {
	sorted := make([]portfolio.Record, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted
}

func joinRequirements(p portfolio.Record) string {
	parts := make([]string, len(p.RequiresHuman))
	for i, r := range p.RequiresHuman {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func priorityEmoji(priority float64) string {
	switch {
	case priority > 70:
		return "🔴"
	case priority > 40:
		return "🟡"
	default:
		return "🟢"
	}
}

func completionPct(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
