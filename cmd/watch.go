package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/config"
	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/telemetry"
	"github.com/specfleet/specfleet/internal/ui"
)

// watchDebounce coalesces bursts of filesystem events into one rescan.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan continuously as artifact files change",
	Long: `Watches the artifact directories of every discovered project and rescans
when files change, with a periodic rescan at the configured watch interval
as a fallback for changes the watcher cannot see.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("root", ".", "root directory to watch")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	cfg := loadConfig(cmd)
	printer := ui.New()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	emitter := openEmitter(cfg, root)
	defer emitter.Close()

	snap, err := runFullScan(ctx, root, cfg)
	if err != nil {
		return err
	}
	printer.ScanSummary(snap)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	addArtifactDirs(watcher, snap.Projects, root)

	ticker := time.NewTicker(cfg.WatchInterval())
	defer ticker.Stop()

	var debounce *time.Timer
	rescan := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Reset the debounce window on every event in a burst.
			if debounce != nil {
				debounce.Stop()
			}
			name := ev.Name
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case rescan <- name:
				default:
				}
			})

		case <-watcher.Errors:
			// Watcher errors degrade to interval-driven rescans.

		case name := <-rescan:
			announceTrigger(emitter, printer, name)
			snap = rescanAndReport(ctx, root, cfg, printer, watcher)

		case <-ticker.C:
			snap = rescanAndReport(ctx, root, cfg, printer, watcher)
		}
	}
}

// announceTrigger records the filesystem trigger and tells the operator a
// rescan is starting.
func announceTrigger(em *telemetry.Emitter, printer *ui.Printer, name string) {
	em.Record(telemetry.KindWatchTrigger, "", map[string]string{"path": name})
	printer.Watch("change detected: " + name)
}

// rescanAndReport runs a scan, prints the summary, and refreshes the watch
// set so newly created projects get watched too.
func rescanAndReport(ctx context.Context, root string, cfg config.Config, printer *ui.Printer, watcher *fsnotify.Watcher) *portfolio.Snapshot {
	snap, err := runFullScan(ctx, root, cfg)
	if err != nil {
		printer.Watch("rescan failed: " + err.Error())
		return nil
	}
	printer.ScanSummary(snap)
	addArtifactDirs(watcher, snap.Projects, root)
	return snap
}

// addArtifactDirs registers every project's artifact directories with the
// watcher. Re-adding an already watched path is harmless.
func addArtifactDirs(watcher *fsnotify.Watcher, projects []portfolio.Record, root string) {
	_ = watcher.Add(root)
	for _, p := range projects {
		for _, sub := range []string{".specify", "specs", filepath.Join(".specify", "memory")} {
			dir := filepath.Join(p.Path, sub)
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				_ = watcher.Add(dir)
				// Watch numbered feature directories one level down.
				entries, err := os.ReadDir(dir)
				if err != nil {
					continue
				}
				for _, e := range entries {
					if e.IsDir() {
						_ = watcher.Add(filepath.Join(dir, e.Name()))
					}
				}
			}
		}
	}
}
