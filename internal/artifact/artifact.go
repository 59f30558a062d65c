// Package artifact discovers and resolves the four canonical lifecycle
// documents of a spec-driven project: constitution, specification, plan, and
// task list. It understands both the flat layout (files directly in the
// artifacts directory) and the versioned layout (numbered feature
// subdirectories like 001-login, 002-search).
package artifact

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/specfleet/specfleet/internal/faults"
)

// Canonical artifact filenames.
const (
	ConstitutionFile = "constitution.md"
	SpecFile         = "spec.md"
	PlanFile         = "plan.md"
	TasksFile        = "tasks.md"
)

// Ref describes one resolved artifact file. Refs are recomputed on every
// scan; they carry no persistent identity.
type Ref struct {
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
	// Valid reports that the file exists, is readable, and has non-empty
	// trimmed content.
	Valid bool `json:"valid"`
}

// Set holds the resolved artifacts for one project at one point in time.
// A nil slot means the artifact was not found. Either all four slots are
// determined by a single resolution pass or the set is empty.
type Set struct {
	Constitution  *Ref `json:"constitution,omitempty"`
	Specification *Ref `json:"specification,omitempty"`
	Plan          *Ref `json:"plan,omitempty"`
	TaskList      *Ref `json:"task_list,omitempty"`
}

// Any reports whether at least one artifact slot is populated.
func (s Set) Any() bool {
	return s.Constitution != nil || s.Specification != nil || s.Plan != nil || s.TaskList != nil
}

// statRef builds a Ref for the file at path, or nil if it does not exist.
// Permission and I/O failures propagate as filesystem errors.
func statRef(path string) (*Ref, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: stat %s: %v", faults.ErrFilesystem, path, err)
	}
	return &Ref{
		Path:         path,
		SizeBytes:    info.Size(),
		LastModified: info.ModTime().UTC(),
		Valid:        validate(path),
	}, nil
}

// validate reports whether the file is readable and its trimmed content is
// non-empty.
func validate(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) != ""
}
