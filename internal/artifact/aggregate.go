package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/specfleet/specfleet/internal/faults"
)

// Conventional artifact root directories inside a project. The visible root
// is preferred; the hidden root is consulted only when the visible root
// yields an entirely empty set.
const (
	VisibleRoot = "specs"
	HiddenRoot  = ".specify"
)

// ResolveProject resolves the artifact set for a project directory, applying
// the two-root preference: specs/ first, falling back to .specify/ only when
// specs/ produced nothing.
func ResolveProject(projectDir string) (Set, error) {
	specsDir := filepath.Join(projectDir, VisibleRoot)
	specifyDir := filepath.Join(projectDir, HiddenRoot)

	if dirExists(specsDir) {
		set, err := Resolve(specsDir)
		if err != nil {
			return Set{}, err
		}
		if set.Any() || !dirExists(specifyDir) {
			return set, nil
		}
	}

	if dirExists(specifyDir) {
		return Resolve(specifyDir)
	}

	return Set{}, nil
}

// Resolve produces the artifact set for a candidate artifacts directory.
//
// Direct-layout artifacts win outright: if any of the four canonical files is
// found directly in dir, that result is returned and numbered feature
// directories are never consulted. Otherwise artifacts are aggregated from
// numbered feature subdirectories, newest first.
func Resolve(dir string) (Set, error) {
	direct, err := resolveDirect(dir)
	if err != nil {
		return Set{}, err
	}
	if direct.Any() {
		return direct, nil
	}

	versioned, err := resolveVersioned(dir)
	if err != nil {
		return Set{}, err
	}
	if versioned.Any() {
		return versioned, nil
	}

	return Set{}, nil
}

// resolveDirect checks for the canonical filenames directly inside dir. The
// constitution may live at dir/constitution.md or dir/memory/constitution.md;
// the former is preferred.
func resolveDirect(dir string) (Set, error) {
	var set Set
	var err error

	set.Constitution, err = statRef(filepath.Join(dir, ConstitutionFile))
	if err != nil {
		return Set{}, err
	}
	if set.Constitution == nil {
		set.Constitution, err = statRef(filepath.Join(dir, "memory", ConstitutionFile))
		if err != nil {
			return Set{}, err
		}
	}

	set.Specification, err = statRef(filepath.Join(dir, SpecFile))
	if err != nil {
		return Set{}, err
	}
	set.Plan, err = statRef(filepath.Join(dir, PlanFile))
	if err != nil {
		return Set{}, err
	}
	set.TaskList, err = statRef(filepath.Join(dir, TasksFile))
	if err != nil {
		return Set{}, err
	}

	return set, nil
}

// resolveVersioned aggregates artifacts from numbered feature directories.
// Directories whose name begins with three decimal digits are sorted by name
// ascending and iterated newest-to-oldest. The most recent feature's spec and
// plan win; one task file is collected per feature and the newest collected
// task file is surfaced (task files are deliberately not merged). The
// constitution is looked up once at <parent>/.specify/memory/constitution.md.
//
// Lexicographic name ordering makes numeric-prefix ordering correct only for
// equal-width prefixes; a known constraint of the layout convention.
func resolveVersioned(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return Set{}, fmt.Errorf("%w: reading %s: %v", faults.ErrFilesystem, dir, err)
	}

	var features []string
	for _, e := range entries {
		if e.IsDir() && isNumberedName(e.Name()) {
			features = append(features, e.Name())
		}
	}
	if len(features) == 0 {
		return Set{}, nil
	}
	sort.Strings(features)

	var set Set

	memoryConstitution := filepath.Join(filepath.Dir(dir), HiddenRoot, "memory", ConstitutionFile)
	set.Constitution, err = statRef(memoryConstitution)
	if err != nil {
		return Set{}, err
	}

	var taskFiles []*Ref
	for i := len(features) - 1; i >= 0; i-- {
		featureDir := filepath.Join(dir, features[i])
		found, ferr := resolveDirect(featureDir)
		if ferr != nil {
			return Set{}, ferr
		}

		if set.Specification == nil && found.Specification != nil {
			set.Specification = found.Specification
		}
		if set.Plan == nil && found.Plan != nil {
			set.Plan = found.Plan
		}
		if found.TaskList != nil {
			taskFiles = append(taskFiles, found.TaskList)
		}
	}

	if len(taskFiles) > 0 {
		set.TaskList = taskFiles[0]
	}

	return set, nil
}

// isNumberedName reports whether the first three characters of name are all
// decimal digits.
func isNumberedName(name string) bool {
	if len(name) < 3 {
		return false
	}
	for _, c := range name[:3] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
