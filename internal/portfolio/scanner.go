package portfolio

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/specfleet/specfleet/internal/artifact"
	"github.com/specfleet/specfleet/internal/config"
	"github.com/specfleet/specfleet/internal/gitstat"
	"github.com/specfleet/specfleet/internal/ledger"
	"github.com/specfleet/specfleet/internal/meta"
	"github.com/specfleet/specfleet/internal/score"
	"github.com/specfleet/specfleet/internal/stage"
	"github.com/specfleet/specfleet/internal/telemetry"
)

// GitReader supplies repository status to the scan pipeline. Defined here,
// where consumed, rather than in the gitstat package.
type GitReader interface {
	// Status reads the repository state for a project directory.
	Status(ctx context.Context, dir string) (gitstat.Status, error)

	// HasRecentErrors reports a weak build/test failure signal derived from
	// recent history.
	HasRecentErrors(ctx context.Context, dir string) (bool, error)
}

// Scanner runs the per-project pipeline over every project under Root and
// assembles a portfolio snapshot. Per-project processing shares no mutable
// state, so projects fan out across Workers goroutines; results are
// collected by discovery index.
type Scanner struct {
	Root    string
	Config  config.Config
	Git     GitReader
	Meta    *meta.Store
	Emitter *telemetry.Emitter

	// now is swappable for tests; nil means time.Now.
	now func() time.Time
}

func (s *Scanner) clock() time.Time {
	if s.now != nil {
		return s.now().UTC()
	}
	return time.Now().UTC()
}

// Scan discovers projects and runs the full pipeline on each. One project's
// failure is recorded in the snapshot's error list and does not abort the
// rest; the context is honored between per-project items.
func (s *Scanner) Scan(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	s.Emitter.Record(telemetry.KindScanStart, "", map[string]any{"root": s.Root})

	finder := &Finder{Root: s.Root, MaxDepth: s.Config.ScanDepth}
	paths, visited, err := finder.FindProjects()
	if err != nil {
		return nil, fmt.Errorf("discovering projects under %s: %w", s.Root, err)
	}
	if s.Config.MaxProjects > 0 && len(paths) > s.Config.MaxProjects {
		paths = paths[:s.Config.MaxProjects]
	}

	type outcome struct {
		record Record
		err    error
	}
	results := make([]outcome, len(paths))

	workers := s.Config.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			rec, perr := s.processProject(ctx, path)
			results[i] = outcome{record: rec, err: perr}
		}(i, path)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan cancelled: %w", err)
	}

	var projects []Record
	var scanErrors []string
	for i, res := range results {
		if res.err != nil {
			msg := fmt.Sprintf("error processing %s: %v", paths[i], res.err)
			scanErrors = append(scanErrors, msg)
			s.Emitter.Record(telemetry.KindProjectError, paths[i], map[string]any{"error": res.err.Error()})
			continue
		}
		projects = append(projects, res.record)
		s.Emitter.Record(telemetry.KindProjectDone, res.record.ID, map[string]any{
			"stage":    res.record.Stage,
			"priority": res.record.Priority,
		})
	}

	snap := &Snapshot{
		GeneratedAt: s.clock(),
		ScanStats: ScanStats{
			DirectoriesScanned: visited,
			ProjectsFound:      len(projects),
			ScanTimeMillis:     time.Since(start).Milliseconds(),
			Errors:             scanErrors,
		},
		Projects: projects,
	}
	snap.Summary = Summarize(projects, s.Config.AttentionThreshold)

	s.Emitter.Record(telemetry.KindScanDone, "", map[string]any{
		"projects": len(projects),
		"errors":   len(scanErrors),
		"ms":       snap.ScanStats.ScanTimeMillis,
	})
	return snap, nil
}

// processProject runs the full pipeline for one project directory:
// aggregator → ledger parser → stage detector → scorer.
func (s *Scanner) processProject(ctx context.Context, projectDir string) (Record, error) {
	artifacts, err := artifact.ResolveProject(projectDir)
	if err != nil {
		return Record{}, err
	}

	var tasks ledger.Ledger
	if artifacts.TaskList != nil {
		tasks, err = ledger.ParseFile(artifacts.TaskList.Path)
		if err != nil {
			return Record{}, err
		}
	}

	repo, err := s.Git.Status(ctx, projectDir)
	if err != nil {
		return Record{}, err
	}
	hasErrors, err := s.Git.HasRecentErrors(ctx, projectDir)
	if err != nil {
		return Record{}, err
	}

	kind := stage.DetectKind(projectDir)
	st := stage.Detect(artifacts, kind, projectDir)

	riskLevel := score.RiskLevel(hasErrors, tasks, repo)
	reqs := score.Requirements(st, repo, tasks)

	id := filepath.Base(projectDir)
	impact := 2
	confidence := 1
	if m, ok := s.Meta.Get(id); ok {
		if m.Impact != nil {
			impact = *m.Impact
		}
		if m.ApprovedByHuman {
			confidence = 2
		}
	}

	lastUpdated := s.clock()
	if artifacts.Specification != nil {
		lastUpdated = artifacts.Specification.LastModified
	}

	calc := score.Calculator{Weights: s.Config.Weights}
	priority := calc.Priority(reqs, riskLevel, lastUpdated, impact, confidence, s.clock())

	return Record{
		ID:            id,
		Path:          projectDir,
		Stage:         st,
		NextAction:    stage.Next(st),
		RequiresHuman: reqs,
		Priority:      priority,
		Tasks:         tasks,
		LastUpdated:   lastUpdated,
		Repository:    repo,
		Kind:          kind,
		Artifacts:     artifacts,
	}, nil
}
