package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/specfleet/specfleet/internal/portfolio"
)

func snapshotAt(generated time.Time, projects int) *portfolio.Snapshot {
	return &portfolio.Snapshot{
		GeneratedAt: generated,
		ScanStats:   portfolio.ScanStats{ScanTimeMillis: 12},
		Summary: portfolio.Summary{
			TotalProjects:  projects,
			NeedsAttention: 1,
			TotalTasks:     8,
			CompletedTasks: 3,
			AvgPriority:    41.5,
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := store.Record(ctx, snapshotAt(base.Add(time.Duration(i)*time.Minute), i+1)); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}

	// Newest first.
	if entries[0].Projects != 3 || entries[2].Projects != 1 {
		t.Errorf("ordering wrong: %+v", entries)
	}
	if !entries[0].GeneratedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("generated_at = %v", entries[0].GeneratedAt)
	}
	if entries[0].AvgPriority != 41.5 || entries[0].TotalTasks != 8 || entries[0].ScanMillis != 12 {
		t.Errorf("entry fields = %+v", entries[0])
	}
}

func TestRecentHonorsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, snapshotAt(base.Add(time.Duration(i)*time.Minute), i+1)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("entries = %d, want 2", len(entries))
	}
}

func TestRecentClampsNonPositiveLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := store.Record(ctx, snapshotAt(base.Add(time.Duration(i)*time.Minute), i+1)); err != nil {
			t.Fatal(err)
		}
	}

	for _, limit := range []int{0, -5} {
		entries, err := store.Recent(ctx, limit)
		if err != nil {
			t.Fatalf("recent(%d): %v", limit, err)
		}
		if len(entries) != 3 {
			t.Errorf("recent(%d) = %d entries, want 3", limit, len(entries))
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := store.Record(ctx, snapshotAt(time.Now().UTC(), 1)); err != nil {
		t.Fatal(err)
	}
	store.Close()

	// Reopening against an existing database must not fail or lose rows.
	store, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer store.Close()

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("entries after reopen = %d, want 1", len(entries))
	}
}
