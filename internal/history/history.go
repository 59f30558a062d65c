// Package history records one row per completed portfolio scan in a local
// SQLite database, so operators can see how the portfolio has trended
// between invocations without keeping old snapshots around.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/specfleet/specfleet/internal/portfolio"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    generated_at    TIMESTAMP NOT NULL,
    projects        INTEGER NOT NULL,
    needs_attention INTEGER NOT NULL,
    total_tasks     INTEGER NOT NULL,
    completed_tasks INTEGER NOT NULL,
    avg_priority    REAL NOT NULL,
    scan_ms         INTEGER NOT NULL,
    errors          INTEGER NOT NULL DEFAULT 0
);
`

// Entry is one recorded scan.
type Entry struct {
	GeneratedAt    time.Time
	Projects       int
	NeedsAttention int
	TotalTasks     int
	CompletedTasks int
	AvgPriority    float64
	ScanMillis     int64
	Errors         int
}

// Store persists scan history in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dbPath, enables WAL mode
// and a busy timeout, and creates the schema if needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	// SQLite supports a single writer; one pooled connection avoids
	// SQLITE_BUSY contention between connections that each need their own
	// PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record inserts one row summarizing the completed scan.
func (s *Store) Record(ctx context.Context, snap *portfolio.Snapshot) error {
	const q = `
		INSERT INTO scans (generated_at, projects, needs_attention, total_tasks,
		                   completed_tasks, avg_priority, scan_ms, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		snap.GeneratedAt.UTC().Format(time.RFC3339),
		snap.Summary.TotalProjects,
		snap.Summary.NeedsAttention,
		snap.Summary.TotalTasks,
		snap.Summary.CompletedTasks,
		snap.Summary.AvgPriority,
		snap.ScanStats.ScanTimeMillis,
		len(snap.ScanStats.Errors),
	)
	if err != nil {
		return fmt.Errorf("history: record scan: %w", err)
	}
	return nil
}

// defaultRecentLimit bounds Recent when the caller passes no usable limit.
const defaultRecentLimit = 10

// Recent returns up to limit scans, newest first. A non-positive limit falls
// back to defaultRecentLimit; SQLite would otherwise read LIMIT 0 as "no
// rows" and a negative value as "all rows".
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	const q = `
		SELECT generated_at, projects, needs_attention, total_tasks,
		       completed_tasks, avg_priority, scan_ms, errors
		FROM scans ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent scans: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&ts, &e.Projects, &e.NeedsAttention, &e.TotalTasks,
			&e.CompletedTasks, &e.AvgPriority, &e.ScanMillis, &e.Errors); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339, ts); perr == nil {
			e.GeneratedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate rows: %w", err)
	}
	return entries, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
