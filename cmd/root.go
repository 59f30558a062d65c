// Package cmd wires the specfleet CLI: scan, status, report, meta, watch,
// history, and config commands over the portfolio engine.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/specfleet/specfleet/internal/config"
	"github.com/specfleet/specfleet/internal/faults"
	"github.com/specfleet/specfleet/internal/meta"
	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/statecache"
	"github.com/specfleet/specfleet/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "specfleet",
	Short: "Portfolio manager for spec-driven projects",
	Long: "Specfleet inventories a tree of spec-driven projects, infers each one's\n" +
		"lifecycle stage, scores it for human attention, and renders portfolio reports.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A malformed config file is fatal; a missing one is not.
		return cfgErr
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// cfgErr records a config-file read failure discovered during init; it is
// surfaced before any command runs.
var cfgErr error

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.config/specfleet/config.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (writes scan telemetry)")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "specfleet"))
		}
	}

	viper.SetEnvPrefix("SPECFLEET")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return // missing file falls back to defaults
		}
		cfgErr = fmt.Errorf("%w: %v", faults.ErrConfiguration, err)
	}
}

// loadConfig resolves the effective configuration after flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	return cfg
}

// loadCachedSnapshot returns the cached snapshot for root when it is still
// fresh, recording the cache decision as telemetry. A nil snapshot with a
// nil error means the cache is stale or missing and the caller should rescan.
func loadCachedSnapshot(root string, cfg config.Config) (*portfolio.Snapshot, error) {
	snap, err := statecache.Cache{}.Load(root, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	emitter := openEmitter(cfg, root)
	defer emitter.Close()
	if snap == nil {
		emitter.Record(telemetry.KindCacheMiss, "", nil)
		return nil, nil
	}
	emitter.Record(telemetry.KindCacheHit, "", map[string]any{"generated_at": snap.GeneratedAt})
	return snap, nil
}

// openEmitter returns a telemetry emitter for the root when verbose
// diagnostics are on, or nil (a valid no-op emitter) otherwise.
func openEmitter(cfg config.Config, root string) *telemetry.Emitter {
	if !cfg.Verbose {
		return nil
	}
	dir := filepath.Join(root, meta.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	em, err := telemetry.NewEmitter(filepath.Join(dir, "scan.jsonl"))
	if err != nil {
		return nil
	}
	return em
}
