// Package ui prints scan and status output to the terminal. All colored
// output goes through the ANSI constants here.
package ui

import (
	"fmt"
	"os"

	"github.com/specfleet/specfleet/internal/portfolio"
)

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	green  = "\033[32m"
	red    = "\033[31m"
	cyan   = "\033[36m"
)

// Printer writes human-oriented output for scan, status, and watch modes.
type Printer struct{}

// New returns a Printer.
func New() *Printer {
	return &Printer{}
}

// ProjectLine prints one discovered project during a scan.
func (p *Printer) ProjectLine(rec portfolio.Record) {
	fmt.Printf("Found: %s [%s] Priority: %.1f\n", rec.Path, rec.Stage, rec.Priority)
}

// ScanSummary prints the closing block after a scan completes.
func (p *Printer) ScanSummary(snap *portfolio.Snapshot) {
	fmt.Println("\n" + bold + "=== Scan Complete ===" + reset)
	fmt.Printf("Projects found: %d\n", snap.Summary.TotalProjects)
	fmt.Printf("Need attention: %d\n", snap.Summary.NeedsAttention)
	fmt.Printf("Tasks: %d/%d completed\n", snap.Summary.CompletedTasks, snap.Summary.TotalTasks)
	fmt.Printf("Average priority: %.1f\n", snap.Summary.AvgPriority)
	fmt.Printf("Scan time: %dms\n", snap.ScanStats.ScanTimeMillis)

	if len(snap.ScanStats.Errors) > 0 {
		fmt.Println("\n" + red + "Errors encountered:" + reset)
		for _, e := range snap.ScanStats.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}

// Portfolio prints the status overview: summary counters plus the top ten
// projects by priority.
func (p *Printer) Portfolio(snap *portfolio.Snapshot, sorted []portfolio.Record) {
	fmt.Println(bold + cyan + "=== Portfolio Status ===" + reset)
	fmt.Printf("Generated: %s\n\n", snap.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Printf("Total Projects: %d\n", snap.Summary.TotalProjects)
	fmt.Printf("Need Attention: %d\n", snap.Summary.NeedsAttention)
	pct := 0.0
	if snap.Summary.TotalTasks > 0 {
		pct = float64(snap.Summary.CompletedTasks) / float64(snap.Summary.TotalTasks) * 100
	}
	fmt.Printf("Tasks: %d/%d completed (%.0f%%)\n", snap.Summary.CompletedTasks, snap.Summary.TotalTasks, pct)
	fmt.Printf("Average Priority: %.1f\n\n", snap.Summary.AvgPriority)

	fmt.Println("Projects (by priority):")
	for i, rec := range sorted {
		if i >= 10 {
			break
		}
		fmt.Printf("  %s [%5.1f] %s - %s - %d/%d tasks\n",
			statusIcon(rec), rec.Priority, rec.ID, rec.Stage,
			rec.Tasks.Completed, rec.Tasks.Total)
	}
	if len(sorted) > 10 {
		fmt.Printf("  %s... and %d more projects%s\n", dim, len(sorted)-10, reset)
	}
}

// Watch prints a watch-mode trigger notice to stderr.
func (p *Printer) Watch(msg string) {
	fmt.Fprintln(os.Stderr, yellow+"watch: "+reset+msg)
}

// statusIcon mirrors the priority thresholds used in the markdown report.
func statusIcon(rec portfolio.Record) string {
	switch {
	case rec.Tasks.Total > 0 && rec.Tasks.Completed == rec.Tasks.Total:
		return green + "✅" + reset
	case rec.Priority > 50:
		return "🔴"
	case rec.Priority > 30:
		return "🟡"
	default:
		return "🟢"
	}
}
