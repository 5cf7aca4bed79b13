package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Cache is the persistent scan result cache. One database serves all
// projects; entries are keyed by absolute file path.
type Cache struct {
	db *sql.DB
}

// DefaultLocation returns the default cache directory (~/.defscan/cache).
func DefaultLocation() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".defscan", "cache")
}

// Open opens (and if necessary creates) the cache database under the given
// directory. An empty location uses DefaultLocation.
func Open(location string) (*Cache, error) {
	if location == "" {
		location = DefaultLocation()
	}
	if err := os.MkdirAll(location, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(location, "scans.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	tables := []struct {
		name string
		ddl  string
	}{
		{"file_reports", createFileReportsTable},
		{"scan_runs", createScanRunsTable},
	}
	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	if _, err := tx.Exec(createRunsIndex); err != nil {
		return fmt.Errorf("failed to create runs index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

const createFileReportsTable = `
CREATE TABLE IF NOT EXISTS file_reports (
	path       TEXT PRIMARY KEY,
	size       INTEGER NOT NULL,
	mtime_ns   INTEGER NOT NULL,
	sha256     TEXT NOT NULL,
	report     TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

const createScanRunsTable = `
CREATE TABLE IF NOT EXISTS scan_runs (
	id            TEXT PRIMARY KEY,
	root          TEXT NOT NULL,
	started_at    TEXT NOT NULL,
	duration_ms   INTEGER NOT NULL,
	files_scanned INTEGER NOT NULL,
	definitions   INTEGER NOT NULL,
	diagnostics   INTEGER NOT NULL
)`

const createRunsIndex = `
CREATE INDEX IF NOT EXISTS idx_scan_runs_root ON scan_runs(root, started_at)`

// Entry is one cached file record.
type Entry struct {
	Path      string
	Size      int64
	MtimeNs   int64
	SHA256    string
	Report    string // JSON-encoded scanner.FileReport
	UpdatedAt time.Time
}

// Lookup returns the cached entry for a path, if one exists.
func (c *Cache) Lookup(path string) (*Entry, bool, error) {
	var e Entry
	var updatedAt string
	err := c.db.QueryRow(
		`SELECT path, size, mtime_ns, sha256, report, updated_at FROM file_reports WHERE path = ?`,
		path,
	).Scan(&e.Path, &e.Size, &e.MtimeNs, &e.SHA256, &e.Report, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup failed: %w", err)
	}
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, true, nil
}

// Store upserts a file record.
func (c *Cache) Store(e *Entry) error {
	_, err := c.db.Exec(`
		INSERT INTO file_reports (path, size, mtime_ns, sha256, report, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size = excluded.size,
			mtime_ns = excluded.mtime_ns,
			sha256 = excluded.sha256,
			report = excluded.report,
			updated_at = excluded.updated_at`,
		e.Path, e.Size, e.MtimeNs, e.SHA256, e.Report,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("cache store failed: %w", err)
	}
	return nil
}

// Touch refreshes the stat columns of an existing record without rewriting
// the report. Used when content is unchanged but the mtime moved.
func (c *Cache) Touch(path string, size, mtimeNs int64) error {
	_, err := c.db.Exec(
		`UPDATE file_reports SET size = ?, mtime_ns = ?, updated_at = ? WHERE path = ?`,
		size, mtimeNs, time.Now().UTC().Format(time.RFC3339), path)
	if err != nil {
		return fmt.Errorf("cache touch failed: %w", err)
	}
	return nil
}

// RunRecord summarizes one completed scan run.
type RunRecord struct {
	ID           string
	Root         string
	StartedAt    time.Time
	Duration     time.Duration
	FilesScanned int
	Definitions  int
	Diagnostics  int
}

// RecordRun stores a run summary and returns its generated ID.
func (c *Cache) RecordRun(root string, startedAt time.Time, duration time.Duration, filesScanned, definitions, diagnostics int) (string, error) {
	id := uuid.NewString()
	_, err := c.db.Exec(`
		INSERT INTO scan_runs (id, root, started_at, duration_ms, files_scanned, definitions, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, root, startedAt.UTC().Format(time.RFC3339), duration.Milliseconds(),
		filesScanned, definitions, diagnostics)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// RecentRuns returns the most recent run records for a root, newest first.
func (c *Cache) RecentRuns(root string, limit int) ([]RunRecord, error) {
	rows, err := c.db.Query(`
		SELECT id, root, started_at, duration_ms, files_scanned, definitions, diagnostics
		FROM scan_runs WHERE root = ? ORDER BY started_at DESC LIMIT ?`,
		root, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var startedAt string
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.Root, &startedAt, &durationMs,
			&r.FilesScanned, &r.Definitions, &r.Diagnostics); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Clear removes all cached file reports. Run history is kept.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM file_reports`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Stats returns the number of cached file reports.
func (c *Cache) Stats() (entries int, err error) {
	err = c.db.QueryRow(`SELECT COUNT(*) FROM file_reports`).Scan(&entries)
	if err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return entries, nil
}
