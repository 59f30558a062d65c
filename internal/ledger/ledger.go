// Package ledger extracts task-completion statistics from free-form task
// list markdown. It is a best-effort line scanner, not a structured parser:
// each trimmed line is classified into at most one category by an ordered
// rule list, first match wins, and anything unrecognized contributes
// nothing. Malformed markdown never fails; worst case the ledger
// undercounts.
package ledger

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/specfleet/specfleet/internal/faults"
)

// Ledger summarizes the tasks found in one task-list document.
//
// The counters are heuristic. completed <= total, parallelMarked <= total and
// blocked <= total hold for well-formed documents but are not enforced by
// construction; adversarial input can violate them and callers must not
// assume otherwise.
type Ledger struct {
	Total          int       `json:"total"`
	Completed      int       `json:"completed"`
	ParallelMarked int       `json:"parallel_marked"`
	Blocked        int       `json:"blocked"`
	LastActivity   time.Time `json:"last_activity,omitzero"`
}

// taskIDPattern matches task identifiers like T001: or T1234: anywhere in a
// trimmed line.
var taskIDPattern = regexp.MustCompile(`T\d{3,4}:`)

// Indicator substrings. The task-identifier rule deliberately tests a
// narrower set than the checkbox rules, preserved for compatibility with
// existing documents.
var (
	parallelMarkers       = []string{"[P]", "(P)", "||"}
	parallelTaskIDMarkers = []string{"[P]", "||"}
	blockedMarkers        = []string{"[BLOCKED]", "🚫", "⛔"}
	blockedTaskIDMarkers  = []string{"[BLOCKED]", "🚫"}
	completeTaskIDMarkers = []string{"✅", "DONE", "[COMPLETE]", "[x]", "[X]"}
	checkedGlyphs         = []string{"✅", "☑"}
	uncheckedGlyphs       = []string{"⬜", "☐", "❌", "🔄"}
)

// rule pairs a line predicate with its counting effect. Rules are evaluated
// in order and exactly one fires per line.
type rule struct {
	match func(trimmed string) bool
	apply func(l *Ledger, raw string)
}

var rules = []rule{
	{ // Unchecked checkbox.
		match: func(t string) bool {
			return strings.HasPrefix(t, "- [ ]") || strings.HasPrefix(t, "* [ ]")
		},
		apply: func(l *Ledger, raw string) {
			l.Total++
			if containsAny(raw, parallelMarkers) {
				l.ParallelMarked++
			}
			if containsAny(raw, blockedMarkers) {
				l.Blocked++
			}
		},
	},
	{ // Checked checkbox.
		match: func(t string) bool {
			for _, p := range []string{"- [x]", "- [X]", "* [x]", "* [X]"} {
				if strings.HasPrefix(t, p) {
					return true
				}
			}
			return false
		},
		apply: func(l *Ledger, raw string) {
			l.Total++
			l.Completed++
			if containsAny(raw, parallelMarkers) {
				l.ParallelMarked++
			}
		},
	},
	{ // Standalone task identifier, e.g. "T001: set up repo [P]".
		match: func(t string) bool {
			if !strings.Contains(t, ":") {
				return false
			}
			if strings.HasPrefix(t, "- [") || strings.HasPrefix(t, "* [") {
				return false
			}
			return taskIDPattern.MatchString(t)
		},
		apply: func(l *Ledger, raw string) {
			l.Total++
			if containsAny(raw, completeTaskIDMarkers) {
				l.Completed++
			}
			if containsAny(raw, parallelTaskIDMarkers) {
				l.ParallelMarked++
			}
			if containsAny(raw, blockedTaskIDMarkers) {
				l.Blocked++
			}
		},
	},
	{ // Checked emoji glyph.
		match: func(t string) bool { return hasAnyPrefix(t, checkedGlyphs) },
		apply: func(l *Ledger, _ string) {
			l.Total++
			l.Completed++
		},
	},
	{ // Unchecked, in-progress, or failed emoji glyph.
		match: func(t string) bool { return hasAnyPrefix(t, uncheckedGlyphs) },
		apply: func(l *Ledger, _ string) { l.Total++ },
	},
	{ // TODO keyword.
		match: func(t string) bool {
			return strings.HasPrefix(t, "TODO:") || strings.HasPrefix(t, "- TODO:")
		},
		apply: func(l *Ledger, _ string) { l.Total++ },
	},
	{ // DONE keyword.
		match: func(t string) bool {
			return strings.HasPrefix(t, "DONE:") || strings.HasPrefix(t, "- DONE:")
		},
		apply: func(l *Ledger, _ string) {
			l.Total++
			l.Completed++
		},
	},
}

// Parse scans the document text line by line with no cross-line state and
// returns the resulting ledger. LastActivity is left zero; it comes from
// file metadata, not document content.
func Parse(content string) Ledger {
	var l Ledger
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, r := range rules {
			if r.match(trimmed) {
				r.apply(&l, line)
				break
			}
		}
	}
	return l
}

// ParseFile reads and parses the task list at path, stamping LastActivity
// with the file's modification time. Only filesystem failures are errors.
func ParseFile(path string) (Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ledger{}, fmt.Errorf("%w: reading %s: %v", faults.ErrFilesystem, path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Ledger{}, fmt.Errorf("%w: stat %s: %v", faults.ErrFilesystem, path, err)
	}

	l := Parse(string(data))
	l.LastActivity = info.ModTime().UTC()
	return l, nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
