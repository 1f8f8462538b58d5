// Package analytics provides a small SQLite-backed page-view counter.
// Recording is best-effort: a failed insert is logged and dropped, never
// surfaced to the request path.
package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the analytics database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema setup.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("analytics: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("analytics: open db: %w", err)
	}
	// WAL keeps readers and the single writer from blocking each other;
	// busy_timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, fmt.Errorf("analytics: set pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS page_views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			viewed_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_page_views_path ON page_views(path);
		CREATE INDEX IF NOT EXISTS idx_page_views_viewed_at ON page_views(viewed_at);
	`)
	if err != nil {
		return fmt.Errorf("analytics: ensure schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordView inserts one view of path at the current time.
func (s *Store) RecordView(path string) error {
	_, err := s.db.Exec(
		`INSERT INTO page_views (path, viewed_at) VALUES (?, ?)`,
		path, time.Now().UTC(),
	)
	return err
}

// PageCount is the view count of one path.
type PageCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// TopPages returns the most viewed paths, busiest first.
func (s *Store) TopPages(limit int) ([]PageCount, error) {
	rows, err := s.db.Query(`
		SELECT path, COUNT(*) AS n
		FROM page_views
		GROUP BY path
		ORDER BY n DESC, path ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PageCount
	for rows.Next() {
		var pc PageCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, rows.Err()
}

// Total returns the overall view count.
func (s *Store) Total() (int64, error) {
	var n int64
	err := s.db.QueryRow(`SELECT COUNT(*) FROM page_views`).Scan(&n)
	return n, err
}

// Prune deletes views older than the retention window.
func (s *Store) Prune(retain time.Duration) error {
	_, err := s.db.Exec(
		`DELETE FROM page_views WHERE viewed_at < ?`,
		time.Now().UTC().Add(-retain),
	)
	return err
}
