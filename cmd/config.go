package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global configuration",
}

func init() {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE:  runConfigShow,
	}

	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)

	fmt.Printf("attention_threshold: %.1f\n", cfg.AttentionThreshold)
	fmt.Printf("scan_depth: %d\n", cfg.ScanDepth)
	fmt.Printf("watch_interval_secs: %d\n", cfg.WatchIntervalSecs)
	fmt.Printf("automation_level: %s\n", cfg.AutomationLevel)
	fmt.Printf("dry_run_default: %t\n", cfg.DryRunDefault)
	fmt.Printf("workers: %d\n", cfg.Workers)
	fmt.Printf("weights:\n")
	fmt.Printf("  needs_human: %.1f\n", cfg.Weights.NeedsHuman)
	fmt.Printf("  risk: %.1f\n", cfg.Weights.Risk)
	fmt.Printf("  staleness: %.1f\n", cfg.Weights.Staleness)
	fmt.Printf("  impact: %.1f\n", cfg.Weights.Impact)
	fmt.Printf("  confidence: %.1f\n", cfg.Weights.Confidence)
	return nil
}
