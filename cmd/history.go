package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/history"
	"github.com/specfleet/specfleet/internal/meta"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent scans recorded for this root",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().String("root", ".", "root directory")
	historyCmd.Flags().Int("limit", 10, "maximum scans to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.Open(cmd.Context(), filepath.Join(root, meta.Dir, "history.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No scans recorded yet.")
		return nil
	}

	fmt.Printf("%-20s %9s %10s %12s %9s %7s\n",
		"GENERATED", "PROJECTS", "ATTENTION", "TASKS", "AVG PRIO", "TIME")
	for _, e := range entries {
		fmt.Printf("%-20s %9d %10d %6d/%-5d %9.1f %5dms\n",
			e.GeneratedAt.Format("2006-01-02 15:04:05"),
			e.Projects, e.NeedsAttention,
			e.CompletedTasks, e.TotalTasks,
			e.AvgPriority, e.ScanMillis)
	}
	return nil
}
