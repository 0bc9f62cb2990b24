package store

import (
	"database/sql"
	"fmt"

	"github.com/dgoldman0/scholar.app/internal/models"
)

// GetPaper retrieves a paper by slug. Returns ErrUnknownPaper if absent.
func (s *Store) GetPaper(slug string) (*models.Paper, error) {
	var p models.Paper
	var publishedAt, createdAt, updatedAt string

	err := s.db.QueryRow(`
		SELECT slug, title, abstract, published_at, latest_version_cid, created_at, updated_at
		FROM paper WHERE slug = ?`, slug).Scan(
		&p.Slug, &p.Title, &p.Abstract, &publishedAt, &p.LatestVersionCID, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaper, slug)
	}
	if err != nil {
		return nil, err
	}

	p.PublishedAt = parseTimestamp(publishedAt)
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return &p, nil
}

// ListPapers returns all papers ordered by most recently updated.
func (s *Store) ListPapers() ([]*models.Paper, error) {
	rows, err := s.db.Query(`
		SELECT slug, title, abstract, published_at, latest_version_cid, created_at, updated_at
		FROM paper
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []*models.Paper
	for rows.Next() {
		var p models.Paper
		var publishedAt, createdAt, updatedAt string

		if err := rows.Scan(&p.Slug, &p.Title, &p.Abstract, &publishedAt, &p.LatestVersionCID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		p.PublishedAt = parseTimestamp(publishedAt)
		p.CreatedAt = parseTimestamp(createdAt)
		p.UpdatedAt = parseTimestamp(updatedAt)
		papers = append(papers, &p)
	}

	return papers, rows.Err()
}

// ListVersions returns a paper's versions in reverse version order.
func (s *Store) ListVersions(slug string) ([]*models.PaperVersion, error) {
	rows, err := s.db.Query(`
		SELECT paper_slug, version_number, body_cid, uploaded_at, notes
		FROM paper_version
		WHERE paper_slug = ?
		ORDER BY version_number DESC`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*models.PaperVersion
	for rows.Next() {
		var v models.PaperVersion
		var uploadedAt string

		if err := rows.Scan(&v.PaperSlug, &v.VersionNumber, &v.BodyCID, &uploadedAt, &v.Notes); err != nil {
			return nil, err
		}

		v.UploadedAt = parseTimestamp(uploadedAt)
		versions = append(versions, &v)
	}

	return versions, rows.Err()
}

// ListAuthors returns every distinct author associated with a paper.
func (s *Store) ListAuthors(slug string) ([]*models.PaperAuthor, error) {
	rows, err := s.db.Query(`
		SELECT paper_slug, did, name, orcid
		FROM paper_author
		WHERE paper_slug = ?
		ORDER BY did`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []*models.PaperAuthor
	for rows.Next() {
		var a models.PaperAuthor
		if err := rows.Scan(&a.PaperSlug, &a.DID, &a.Name, &a.ORCID); err != nil {
			return nil, err
		}
		authors = append(authors, &a)
	}

	return authors, rows.Err()
}

// ListAssets returns the supplemental assets recorded for one version.
func (s *Store) ListAssets(slug string, versionNumber int) ([]*models.PaperAsset, error) {
	rows, err := s.db.Query(`
		SELECT paper_slug, version_number, asset_cid, mime_type, filename, description
		FROM paper_asset
		WHERE paper_slug = ? AND version_number = ?
		ORDER BY asset_cid, filename`, slug, versionNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*models.PaperAsset
	for rows.Next() {
		var a models.PaperAsset
		if err := rows.Scan(&a.PaperSlug, &a.VersionNumber, &a.AssetCID, &a.MimeType, &a.Filename, &a.Description); err != nil {
			return nil, err
		}
		assets = append(assets, &a)
	}

	return assets, rows.Err()
}
