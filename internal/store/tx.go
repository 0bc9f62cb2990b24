package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Tx is the transactional boundary for one ingestion's metadata writes.
// Every method runs against the same SQLite transaction; either all of an
// ingestion's rows commit or none do.
type Tx struct {
	tx *sql.Tx
}

// WithTx runs fn inside a single transaction. If fn returns an error the
// transaction is rolled back and the error is returned unchanged.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Tx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// UpsertPaper inserts a new paper row, or — when the slug already exists —
// overwrites its mutable metadata. Conflict detection happens inside the
// INSERT itself, not via a pre-check, so there is no race between checking
// and inserting. created_at is never touched on update.
func (t *Tx) UpsertPaper(slug, title, abstract string, publishedAt time.Time, latestCID string, now time.Time) error {
	_, err := t.tx.Exec(`
		INSERT INTO paper (slug, title, abstract, published_at, latest_version_cid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			abstract = excluded.abstract,
			published_at = excluded.published_at,
			latest_version_cid = excluded.latest_version_cid,
			updated_at = excluded.updated_at`,
		slug, title, abstract, formatTimestamp(publishedAt), latestCID,
		formatTimestamp(now), formatTimestamp(now),
	)
	if err != nil {
		return fmt.Errorf("upsert paper %s: %w", slug, err)
	}
	return nil
}

// NextVersionNumber returns one greater than the highest existing version
// number for a paper, or 1 if the paper has no versions. Must be called in
// the same transaction as the subsequent InsertVersion.
func (t *Tx) NextVersionNumber(slug string) (int, error) {
	var next int
	err := t.tx.QueryRow(`
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM paper_version
		WHERE paper_slug = ?`, slug).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next version number for %s: %w", slug, err)
	}
	return next, nil
}

// InsertVersion records a new immutable version row. A duplicate
// (paper_slug, version_number) key means a concurrent ingestion won the
// allocation and is surfaced as ErrVersionConflict.
func (t *Tx) InsertVersion(slug string, versionNumber int, bodyCID, notes string, uploadedAt time.Time) error {
	_, err := t.tx.Exec(`
		INSERT INTO paper_version (paper_slug, version_number, body_cid, uploaded_at, notes)
		VALUES (?, ?, ?, ?, ?)`,
		slug, versionNumber, bodyCID, formatTimestamp(uploadedAt), notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s v%d", ErrVersionConflict, slug, versionNumber)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", ErrUnknownPaper, slug)
		}
		return fmt.Errorf("insert version %s v%d: %w", slug, versionNumber, err)
	}
	return nil
}

// LinkAuthor records an author for a paper. First write wins: re-linking
// the same DID leaves the existing name and ORCID untouched.
func (t *Tx) LinkAuthor(slug, did, name, orcid string) error {
	_, err := t.tx.Exec(`
		INSERT INTO paper_author (paper_slug, did, name, orcid)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(paper_slug, did) DO NOTHING`,
		slug, did, name, orcid,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", ErrUnknownPaper, slug)
		}
		return fmt.Errorf("link author %s to %s: %w", did, slug, err)
	}
	return nil
}

// LinkVersionAuthor attributes an author to a specific version.
// Idempotent — re-linking is a no-op.
func (t *Tx) LinkVersionAuthor(slug string, versionNumber int, did string) error {
	_, err := t.tx.Exec(`
		INSERT INTO paper_version_author (paper_slug, version_number, author_did)
		VALUES (?, ?, ?)
		ON CONFLICT(paper_slug, version_number, author_did) DO NOTHING`,
		slug, versionNumber, did,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s v%d", ErrUnknownPaper, slug, versionNumber)
		}
		return fmt.Errorf("link version author %s to %s v%d: %w", did, slug, versionNumber, err)
	}
	return nil
}

// LinkAsset records a supplemental asset for a version. Idempotent —
// re-linking the same asset is a no-op. Two assets with identical content
// but different filenames are distinct rows sharing one CID.
func (t *Tx) LinkAsset(slug string, versionNumber int, assetCID, mimeType, filename, description string) error {
	_, err := t.tx.Exec(`
		INSERT INTO paper_asset (paper_slug, version_number, asset_cid, mime_type, filename, description)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(paper_slug, version_number, asset_cid, filename) DO NOTHING`,
		slug, versionNumber, assetCID, mimeType, filename, description,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s v%d", ErrUnknownPaper, slug, versionNumber)
		}
		return fmt.Errorf("link asset %s to %s v%d: %w", assetCID, slug, versionNumber, err)
	}
	return nil
}
