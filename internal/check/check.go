// Package check runs a project's own toolchain checks — build, vet, test —
// selected by project kind. It backs the run-tests next action: instead of
// guessing from commit messages whether a project is healthy, the chain asks
// the toolchain directly. Check failures are captured in the result; only
// infrastructure failures (a cancelled context) surface as errors.
package check

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/specfleet/specfleet/internal/stage"
)

// Result contains the outcome of running a check chain.
type Result struct {
	Passed bool          // true if all checks passed
	Checks []CheckResult // individual check outcomes
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name    string        // "build", "vet", "test"
	Passed  bool          // true if this check passed
	Skipped bool          // true if the required tool was not installed
	Output  string        // stdout+stderr on failure
	Elapsed time.Duration // wall-clock time for this check
}

// FirstFailure returns the first failing check, or nil if all passed.
func (r *Result) FirstFailure() *CheckResult {
	for i := range r.Checks {
		if !r.Checks[i].Passed && !r.Checks[i].Skipped {
			return &r.Checks[i]
		}
	}
	return nil
}

// Check is a single named check in a chain.
type Check struct {
	Name string
	// Tool is the binary the check needs; the check is skipped when it is
	// not on PATH.
	Tool string
	Args []string
}

// Chain runs checks sequentially, stopping on first failure.
type Chain struct {
	Checks []Check
}

// ChainFor returns the check chain for a project kind. Kinds without a
// recognized toolchain get an empty chain.
func ChainFor(kind stage.Kind) *Chain {
	switch kind {
	case stage.KindRust:
		return &Chain{Checks: []Check{
			{Name: "build", Tool: "cargo", Args: []string{"check", "--quiet"}},
			{Name: "test", Tool: "cargo", Args: []string{"test", "--quiet"}},
		}}
	case stage.KindGo:
		return &Chain{Checks: []Check{
			{Name: "build", Tool: "go", Args: []string{"build", "./..."}},
			{Name: "vet", Tool: "go", Args: []string{"vet", "./..."}},
			{Name: "test", Tool: "go", Args: []string{"test", "./..."}},
		}}
	case stage.KindNode:
		return &Chain{Checks: []Check{
			{Name: "test", Tool: "npm", Args: []string{"test", "--if-present"}},
		}}
	case stage.KindPython:
		return &Chain{Checks: []Check{
			{Name: "test", Tool: "pytest", Args: []string{"-q"}},
		}}
	}
	return &Chain{}
}

// Run executes each check in sequence inside workDir. It stops on the first
// failure and returns a Result with Passed=false. A non-nil error is only
// returned for infrastructure failures (e.g. context cancelled), not for
// check failures.
func (c *Chain) Run(ctx context.Context, workDir string) (*Result, error) {
	result := &Result{Passed: true}

	for _, check := range c.Checks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("check chain cancelled: %w", err)
		}

		if _, err := exec.LookPath(check.Tool); err != nil {
			result.Checks = append(result.Checks, CheckResult{
				Name:    check.Name,
				Passed:  true,
				Skipped: true,
			})
			continue
		}

		start := time.Now()
		output, err := runCommand(ctx, workDir, check.Tool, check.Args...)
		elapsed := time.Since(start)

		if err != nil {
			result.Passed = false
			result.Checks = append(result.Checks, CheckResult{
				Name:    check.Name,
				Passed:  false,
				Output:  output,
				Elapsed: elapsed,
			})
			return result, nil
		}

		result.Checks = append(result.Checks, CheckResult{
			Name:    check.Name,
			Passed:  true,
			Output:  output,
			Elapsed: elapsed,
		})
	}

	return result, nil
}

// runCommand executes a command and returns combined stdout+stderr output.
// Returns a nil error if the command exits 0, or a non-nil error with the
// output text for non-zero exits.
func runCommand(ctx context.Context, workDir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	output := strings.TrimSpace(combined.String())

	if err != nil {
		if output == "" {
			output = err.Error()
		}
		return output, err
	}

	return output, nil
}
