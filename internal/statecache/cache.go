// Package statecache persists the last computed portfolio snapshot with a
// time-based freshness window, letting repeated invocations skip the scan
// entirely while the cached result is still fresh.
//
// The cache has no partial invalidation: a snapshot is either fresh and
// returned whole, or discarded whole. Concurrent invocations against the
// same root are not coordinated; each save wholesale-overwrites the prior
// file. That race is a documented limitation of the single-operator tool,
// not something this package tries to fix.
package statecache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/specfleet/specfleet/internal/faults"
	"github.com/specfleet/specfleet/internal/meta"
	"github.com/specfleet/specfleet/internal/portfolio"
)

// DefaultWindow is the freshness window applied when none is configured.
const DefaultWindow = 5 * time.Minute

// Cached is the persisted envelope: the snapshot plus its write timestamp.
type Cached struct {
	LastUpdated time.Time          `json:"last_updated"`
	Payload     portfolio.Snapshot `json:"payload"`
}

// Cache loads and saves snapshots under a root's state directory.
type Cache struct {
	// Window overrides DefaultWindow when positive.
	Window time.Duration
}

func (c Cache) window() time.Duration {
	if c.Window > 0 {
		return c.Window
	}
	return DefaultWindow
}

func cachePath(root string) string {
	return filepath.Join(root, meta.Dir, "status.json")
}

// Load returns the persisted snapshot for root if it is younger than the
// freshness window at the given query time. A missing or stale cache
// returns (nil, nil), signaling the caller to rescan. A malformed cache
// file is a serialization error, fatal for the invocation rather than a
// silent rescan.
func (c Cache) Load(root string, now time.Time) (*portfolio.Snapshot, error) {
	data, err := os.ReadFile(cachePath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading status cache: %v", faults.ErrFilesystem, err)
	}

	var cached Cached
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("%w: parsing status cache: %v", faults.ErrSerialization, err)
	}

	if now.Sub(cached.LastUpdated) >= c.window() {
		return nil, nil
	}
	return &cached.Payload, nil
}

// Save replaces the persisted snapshot for root, stamping it with now.
func (c Cache) Save(root string, snap *portfolio.Snapshot, now time.Time) error {
	dir := filepath.Join(root, meta.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", faults.ErrFilesystem, dir, err)
	}

	data, err := json.MarshalIndent(Cached{LastUpdated: now, Payload: *snap}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling status cache: %v", faults.ErrSerialization, err)
	}
	if err := os.WriteFile(cachePath(root), data, 0o644); err != nil {
		return fmt.Errorf("%w: writing status cache: %v", faults.ErrFilesystem, err)
	}
	return nil
}
