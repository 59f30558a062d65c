package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/specfleet/specfleet/internal/check"
	"github.com/specfleet/specfleet/internal/faults"
	"github.com/specfleet/specfleet/internal/portfolio"
	"github.com/specfleet/specfleet/internal/stage"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <project-id>",
	Short: "Run a project's toolchain checks",
	Long: `Runs the build and test checks appropriate for the project's detected
kind (cargo for Rust, go for Go, npm for Node, pytest for Python). This is
the run-tests next action made executable: the exit status tells you whether
the project is healthy without reading any report.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("root", ".", "root directory")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	projectID := args[0]
	cfg := loadConfig(cmd)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	finder := &portfolio.Finder{Root: root, MaxDepth: cfg.ScanDepth}
	paths, _, err := finder.FindProjects()
	if err != nil {
		return err
	}

	var projectDir string
	for _, p := range paths {
		if filepath.Base(p) == projectID {
			projectDir = p
			break
		}
	}
	if projectDir == "" {
		return fmt.Errorf("%w: no project named %s under %s", faults.ErrNotFound, projectID, root)
	}

	kind := stage.DetectKind(projectDir)
	chain := check.ChainFor(kind)
	if len(chain.Checks) == 0 {
		fmt.Printf("No checks defined for %s projects.\n", kind)
		return nil
	}

	fmt.Printf("Verifying %s (%s)\n", projectID, kind)
	result, err := chain.Run(ctx, projectDir)
	if err != nil {
		return err
	}

	for _, c := range result.Checks {
		switch {
		case c.Skipped:
			fmt.Printf("  - %s: skipped (tool not installed)\n", c.Name)
		case c.Passed:
			fmt.Printf("  ✅ %s (%dms)\n", c.Name, c.Elapsed.Milliseconds())
		default:
			fmt.Printf("  ❌ %s (%dms)\n", c.Name, c.Elapsed.Milliseconds())
		}
	}

	if failure := result.FirstFailure(); failure != nil {
		if failure.Output != "" {
			fmt.Println()
			fmt.Println(failure.Output)
		}
		return fmt.Errorf("check %q failed", failure.Name)
	}

	fmt.Println("All checks passed.")
	return nil
}
