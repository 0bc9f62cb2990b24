// Package store provides SQLite-based persistence for the Scholar paper
// ledger. It owns the five-table relational schema, version-number
// allocation, and idempotent association links.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store represents the SQLite database store
type Store struct {
	db *sql.DB
}

// New creates a new store connection. Foreign-key enforcement and WAL
// journaling are always on; _txlock=immediate makes write transactions
// take the write lock at BEGIN so concurrent ingestions serialize instead
// of both reading the same MAX(version_number).
func New(dbPath string) (*Store, error) {
	dsn := dbPath + "?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the database schema
func (s *Store) Initialize() error {
	schema := `
	-- Papers, keyed by human-chosen slug
	CREATE TABLE IF NOT EXISTS paper (
		slug TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		abstract TEXT NOT NULL DEFAULT '',
		published_at DATETIME NOT NULL,
		latest_version_cid TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	-- Immutable paper revisions
	CREATE TABLE IF NOT EXISTS paper_version (
		paper_slug TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		body_cid TEXT NOT NULL,
		uploaded_at DATETIME NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (paper_slug, version_number),
		FOREIGN KEY (paper_slug) REFERENCES paper(slug)
	);

	-- Distinct authors ever associated with a paper
	CREATE TABLE IF NOT EXISTS paper_author (
		paper_slug TEXT NOT NULL,
		did TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		orcid TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (paper_slug, did),
		FOREIGN KEY (paper_slug) REFERENCES paper(slug)
	);

	-- Authors attributed to a specific version
	CREATE TABLE IF NOT EXISTS paper_version_author (
		paper_slug TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		author_did TEXT NOT NULL,
		PRIMARY KEY (paper_slug, version_number, author_did),
		FOREIGN KEY (paper_slug, version_number) REFERENCES paper_version(paper_slug, version_number),
		FOREIGN KEY (paper_slug, author_did) REFERENCES paper_author(paper_slug, did)
	);

	-- Supplemental content-addressed files per version
	CREATE TABLE IF NOT EXISTS paper_asset (
		paper_slug TEXT NOT NULL,
		version_number INTEGER NOT NULL,
		asset_cid TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT 'application/octet-stream',
		filename TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (paper_slug, version_number, asset_cid, filename),
		FOREIGN KEY (paper_slug, version_number) REFERENCES paper_version(paper_slug, version_number)
	);

	-- Scholar schema version tracking
	CREATE TABLE IF NOT EXISTS scholar_schema_version (
		version INTEGER PRIMARY KEY
	);

	-- Indexes for reverse CID lookups
	CREATE INDEX IF NOT EXISTS idx_paper_version_body_cid ON paper_version(body_cid);
	CREATE INDEX IF NOT EXISTS idx_paper_asset_cid ON paper_asset(asset_cid);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Mark as current schema version
	_, err = s.db.Exec("INSERT OR REPLACE INTO scholar_schema_version (version) VALUES (?)", currentSchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	return nil
}

// DB returns the underlying database connection for advanced queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// formatTimestamp renders a timestamp the way it is stored: UTC, RFC 3339.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamp parses a timestamp string from SQLite in various formats
func parseTimestamp(s string) time.Time {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
