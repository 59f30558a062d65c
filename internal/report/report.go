// Package report renders portfolio snapshots into human- or
// machine-readable documents. Rendering is a pure function of the snapshot;
// nothing here mutates scan state.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/specfleet/specfleet/internal/faults"
	"github.com/specfleet/specfleet/internal/portfolio"
)

// Format renders snapshot data into a report string.
type Format interface {
	// Render produces the full report content from the snapshot.
	Render(snap *portfolio.Snapshot) (string, error)
}

// FormatByName returns the Format implementation for the given name.
// Supported names: markdown (alias md), json.
func FormatByName(name string) (Format, error) {
	switch name {
	case "markdown", "md":
		return &MarkdownReport{}, nil
	case "json":
		return &JSONReport{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", name)
	}
}

// FormatNames returns the list of all supported report format names.
func FormatNames() []string {
	return []string{"markdown", "json"}
}

// Save renders the snapshot with the given format and writes it to path,
// creating parent directories as needed.
func Save(f Format, snap *portfolio.Snapshot, path string) error {
	content, err := f.Render(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating report directory: %v", faults.ErrFilesystem, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("%w: writing report %s: %v", faults.ErrFilesystem, path, err)
	}
	return nil
}
