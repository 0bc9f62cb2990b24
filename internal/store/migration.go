package store

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 2

// RunMigrations applies any pending database migrations
func (s *Store) RunMigrations() error {
	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}

	if version < 2 {
		if err := s.migrateToV2(); err != nil {
			return fmt.Errorf("migration to v2 failed: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, 1 if not set
func (s *Store) getSchemaVersion() (int, error) {
	// Check if version table exists
	var tableName string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='scholar_schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		// Table doesn't exist, this is v1
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 1) FROM scholar_schema_version").Scan(&version)
	if err != nil {
		return 1, nil
	}

	return version, nil
}

// migrateToV2 adds the reverse CID lookup indexes and the version table
// for databases created before schema versioning existed.
func (s *Store) migrateToV2() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS scholar_schema_version (
			version INTEGER PRIMARY KEY
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_version_body_cid ON paper_version(body_cid)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_asset_cid ON paper_asset(asset_cid)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	_, err := s.db.Exec("INSERT OR REPLACE INTO scholar_schema_version (version) VALUES (?)", 2)
	return err
}
