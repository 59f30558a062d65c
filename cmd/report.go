package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a portfolio report from the latest snapshot",
	Long: "Renders a report from the cached snapshot, rescanning first when the\n" +
		"cache is stale. Formats: " + strings.Join(report.FormatNames(), ", ") + ".",
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("root", ".", "root directory")
	reportCmd.Flags().String("out", "", "output file (default stdout)")
	reportCmd.Flags().String("format", "markdown", "report format")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	out, _ := cmd.Flags().GetString("out")
	formatName, _ := cmd.Flags().GetString("format")
	cfg := loadConfig(cmd)

	format, err := report.FormatByName(formatName)
	if err != nil {
		return err
	}

	snap, err := loadCachedSnapshot(root, cfg)
	if err != nil {
		return err
	}
	if snap == nil {
		snap, err = runFullScan(cmd.Context(), root, cfg)
		if err != nil {
			return err
		}
	}

	if out == "" {
		content, err := format.Render(snap)
		if err != nil {
			return err
		}
		fmt.Print(content)
		return nil
	}
	return report.Save(format, snap, out)
}
