// Package portfolio runs the per-project state-inference pipeline across a
// directory tree and assembles the results into a snapshot: discover project
// roots, resolve artifacts, parse the task ledger, detect the stage, score
// priority, and aggregate summary statistics.
package portfolio

import (
	"time"

	"github.com/specfleet/specfleet/internal/artifact"
	"github.com/specfleet/specfleet/internal/gitstat"
	"github.com/specfleet/specfleet/internal/ledger"
	"github.com/specfleet/specfleet/internal/score"
	"github.com/specfleet/specfleet/internal/stage"
)

// Record is the aggregate scan result for one project. Records are created
// fresh on every scan pass and never mutated after construction.
type Record struct {
	ID            string              `json:"id"`
	Path          string              `json:"path"`
	Stage         stage.Stage         `json:"stage"`
	NextAction    stage.NextAction    `json:"next_action"`
	RequiresHuman []score.Requirement `json:"requires_human"`
	Priority      float64             `json:"priority"`
	Tasks         ledger.Ledger       `json:"tasks"`
	LastUpdated   time.Time           `json:"last_updated"`
	Repository    gitstat.Status      `json:"repository"`
	Kind          stage.Kind          `json:"project_kind"`
	Artifacts     artifact.Set        `json:"artifacts"`
}

// ScanStats describes one scan pass. Per-project failures land in Errors
// without aborting the scan.
type ScanStats struct {
	DirectoriesScanned int      `json:"directories_scanned"`
	ProjectsFound      int      `json:"projects_found"`
	ScanTimeMillis     int64    `json:"scan_time_ms"`
	Errors             []string `json:"errors"`
}

// Summary is a derived aggregate recomputed from the project list; it is
// never stored independently of its source.
type Summary struct {
	NeedsAttention int                 `json:"needs_attention"`
	TotalProjects  int                 `json:"total_projects"`
	ByStage        map[stage.Stage]int `json:"by_stage"`
	TotalTasks     int                 `json:"total_tasks"`
	CompletedTasks int                 `json:"completed_tasks"`
	AvgPriority    float64             `json:"avg_priority"`
}

// Snapshot is the portfolio state produced by one scan pass.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	ScanStats   ScanStats `json:"scan_stats"`
	Projects    []Record  `json:"projects"`
	Summary     Summary   `json:"summary"`
}

// Summarize recomputes the summary aggregate from the project list.
func Summarize(projects []Record, attentionThreshold float64) Summary {
	s := Summary{
		TotalProjects: len(projects),
		ByStage:       map[stage.Stage]int{},
	}

	var prioritySum float64
	for _, p := range projects {
		s.ByStage[p.Stage]++
		s.TotalTasks += p.Tasks.Total
		s.CompletedTasks += p.Tasks.Completed
		prioritySum += p.Priority
		if p.Priority > attentionThreshold {
			s.NeedsAttention++
		}
	}
	if len(projects) > 0 {
		s.AvgPriority = prioritySum / float64(len(projects))
	}
	return s
}
