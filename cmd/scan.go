package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/config"
	"github.com/specfleet/specfleet/internal/faults"
	"github.com/specfleet/specfleet/internal/gitstat"
	"github.com/specfleet/specfleet/internal/history"
	"github.com/specfleet/specfleet/internal/meta"
	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/report"
	"github.com/specfleet/specfleet/internal/statecache"
	"github.com/specfleet/specfleet/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for spec-driven projects and refresh the portfolio snapshot",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("root", ".", "root directory to scan")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	cfg := loadConfig(cmd)
	printer := ui.New()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	snap, err := runFullScan(ctx, root, cfg)
	if err != nil {
		return err
	}

	for _, rec := range snap.Projects {
		printer.ProjectLine(rec)
	}
	printer.ScanSummary(snap)
	return nil
}

// runFullScan executes the scan pipeline for root and persists its outputs:
// status cache, markdown report, and scan-history row.
func runFullScan(ctx context.Context, root string, cfg config.Config) (*portfolio.Snapshot, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %s", faults.ErrNotFound, root)
	}

	metaStore, err := meta.Load(root)
	if err != nil {
		return nil, err
	}

	emitter := openEmitter(cfg, root)
	defer emitter.Close()

	scanner := &portfolio.Scanner{
		Root:    root,
		Config:  cfg,
		Git:     gitstat.CLI{},
		Meta:    metaStore,
		Emitter: emitter,
	}
	snap, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := (statecache.Cache{}).Save(root, snap, now); err != nil {
		return nil, err
	}
	if err := report.Save(&report.MarkdownReport{}, snap, filepath.Join(root, meta.Dir, "STATUS.md")); err != nil {
		return nil, err
	}
	recordHistory(ctx, root, snap)

	return snap, nil
}

// recordHistory appends the scan to the per-root history database. History
// is best-effort bookkeeping; failures do not fail the scan.
func recordHistory(ctx context.Context, root string, snap *portfolio.Snapshot) {
	store, err := history.Open(ctx, filepath.Join(root, meta.Dir, "history.db"))
	if err != nil {
		return
	}
	defer store.Close()
	_ = store.Record(ctx, snap)
}
