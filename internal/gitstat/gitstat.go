// Package gitstat reads repository status for a project directory through
// the git CLI. It supplies read-only RepositoryStatus values to the scan
// pipeline; it is not a git implementation.
package gitstat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/specfleet/specfleet/internal/faults"
)

// Status is a snapshot of a project's repository state.
type Status struct {
	IsRepository  bool      `json:"is_repository"`
	Branch        string    `json:"branch,omitempty"`
	Clean         bool      `json:"clean"`
	LastCommit    time.Time `json:"last_commit,omitzero"`
	CommitsAhead  int       `json:"commits_ahead"`
	CommitsBehind int       `json:"commits_behind"`
}

// buildFailureMarkers are scanned for in recent commit messages as a weak
// build/test failure signal.
var buildFailureMarkers = []string{"FIXME", "TODO", "XXX", "HACK", "BUG"}

// CLI queries git by shelling out. The zero value runs git in the directory
// passed to each call.
type CLI struct{}

// run executes a git command in dir and returns its trimmed stdout.
func (CLI) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: git %s: %s: %v",
			faults.ErrVersionControl, strings.Join(args, " "),
			strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Status reads the repository state for dir. A directory that is not a git
// repository yields a zero-ish Status with IsRepository false and Clean true,
// not an error. Lookups that legitimately fail on young repositories
// (no commits, no upstream) degrade to zero values.
func (g CLI) Status(ctx context.Context, dir string) (Status, error) {
	if _, err := g.run(ctx, dir, "rev-parse", "--git-dir"); err != nil {
		return Status{IsRepository: false, Clean: true}, nil
	}

	st := Status{IsRepository: true}

	if branch, err := g.run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD"); err == nil && branch != "HEAD" {
		st.Branch = branch
	}

	porcelain, err := g.run(ctx, dir, "status", "--porcelain")
	if err != nil {
		return Status{}, err
	}
	st.Clean = porcelain == ""

	if out, err := g.run(ctx, dir, "log", "-1", "--format=%cI"); err == nil {
		if t, perr := time.Parse(time.RFC3339, out); perr == nil {
			st.LastCommit = t.UTC()
		}
	}

	// Ahead/behind relative to the configured upstream; absent upstream
	// leaves both at zero.
	if out, err := g.run(ctx, dir, "rev-list", "--left-right", "--count", "@{upstream}...HEAD"); err == nil {
		fields := strings.Fields(out)
		if len(fields) == 2 {
			st.CommitsBehind, _ = strconv.Atoi(fields[0])
			st.CommitsAhead, _ = strconv.Atoi(fields[1])
		}
	}

	return st, nil
}

// HasRecentErrors scans the last five commit messages for failure markers.
// A non-repository or empty history reports false.
func (g CLI) HasRecentErrors(ctx context.Context, dir string) (bool, error) {
	out, err := g.run(ctx, dir, "log", "-5", "--format=%B")
	if err != nil {
		return false, nil
	}
	for _, marker := range buildFailureMarkers {
		if strings.Contains(out, marker) {
			return true, nil
		}
	}
	return false, nil
}
