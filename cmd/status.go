package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/report"
	"github.com/specfleet/specfleet/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the portfolio status, rescanning only when the cache is stale",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("root", ".", "root directory")
	statusCmd.Flags().Bool("json", false, "emit JSON instead of the terminal view")
	statusCmd.Flags().String("only", "", "filter: needs-attention, incomplete, or stage:<name>")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	asJSON, _ := cmd.Flags().GetBool("json")
	only, _ := cmd.Flags().GetString("only")
	cfg := loadConfig(cmd)

	snap, err := loadCachedSnapshot(root, cfg)
	if err != nil {
		return err
	}
	if snap == nil {
		fmt.Println("Cache is stale or missing, rescanning...")
		snap, err = runFullScan(cmd.Context(), root, cfg)
		if err != nil {
			return err
		}
	}

	filtered := *snap
	filtered.Projects = filterProjects(snap.Projects, only, cfg.AttentionThreshold)

	if asJSON {
		out, err := (&report.JSONReport{}).Render(&filtered)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}

	sorted := make([]portfolio.Record, len(filtered.Projects))
	copy(sorted, filtered.Projects)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })

	ui.New().Portfolio(&filtered, sorted)
	return nil
}

// filterProjects applies the --only filter. Unknown filter values pass
// everything through.
func filterProjects(projects []portfolio.Record, only string, attentionThreshold float64) []portfolio.Record {
	if only == "" {
		return projects
	}

	var keep func(portfolio.Record) bool
	switch {
	case only == "needs-attention":
		keep = func(p portfolio.Record) bool { return p.Priority > attentionThreshold }
	case only == "incomplete":
		keep = func(p portfolio.Record) bool { return p.Tasks.Completed < p.Tasks.Total }
	case strings.HasPrefix(only, "stage:"):
		want := strings.ToLower(strings.TrimPrefix(only, "stage:"))
		keep = func(p portfolio.Record) bool { return strings.ToLower(string(p.Stage)) == want }
	default:
		return projects
	}

	var out []portfolio.Record
	for _, p := range projects {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
