// Package models defines the entities of the Scholar paper ledger.
package models

import "time"

// Paper is the top-level record for a publication, keyed by its slug.
// Title, abstract and publication timestamp reflect the most recent
// ingestion; LatestVersionCID always points at the newest version body.
type Paper struct {
	Slug             string
	Title            string
	Abstract         string
	PublishedAt      time.Time
	LatestVersionCID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PaperVersion is one immutable revision of a paper's body.
type PaperVersion struct {
	PaperSlug     string
	VersionNumber int
	BodyCID       string
	UploadedAt    time.Time
	Notes         string
}

// PaperAuthor is a distinct author ever associated with a paper.
// Name and ORCID keep their first-written values.
type PaperAuthor struct {
	PaperSlug string
	DID       string
	Name      string
	ORCID     string
}

// PaperVersionAuthor attributes an author to a specific version.
type PaperVersionAuthor struct {
	PaperSlug     string
	VersionNumber int
	AuthorDID     string
}

// PaperAsset is a supplemental content-addressed file attached to a version.
type PaperAsset struct {
	PaperSlug     string
	VersionNumber int
	AssetCID      string
	MimeType      string
	Filename      string
	Description   string
}

// Author describes an author as supplied to an ingestion.
type Author struct {
	DID   string
	Name  string
	ORCID string
}

// AssetInput describes a supplemental file as supplied to an ingestion.
type AssetInput struct {
	Path        string
	Description string
}

// IngestSummary is the result of a successful ingestion.
type IngestSummary struct {
	Slug          string
	VersionNumber int
	AssetCount    int
}
