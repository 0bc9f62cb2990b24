// Package core implements the ingestion pipeline: content addressing,
// blob persistence, and the versioned metadata transaction.
package core

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgoldman0/scholar.app/internal/blobstore"
	"github.com/dgoldman0/scholar.app/internal/models"
	"github.com/dgoldman0/scholar.app/internal/store"
)

// ingestAttempts bounds the optimistic retry loop around version-number
// allocation: one automatic retry, then the conflict surfaces.
const ingestAttempts = 2

// IngestInput describes one ingestion request.
type IngestInput struct {
	FilePath    string
	Slug        string
	Title       string
	Abstract    string
	PublishedAt time.Time // zero value means "now"
	Notes       string
	Authors     []models.Author
	Assets      []models.AssetInput
}

// stagedAsset is a supplemental asset whose blob has already been written.
type stagedAsset struct {
	cid         string
	mimeType    string
	filename    string
	description string
}

// Ingest runs one end-to-end ingestion: the main file and all assets are
// content-addressed and persisted to the blob store, then every metadata
// row commits in a single transaction. On a version-number conflict the
// whole transaction is retried once.
//
// Blob writes happen outside the metadata transaction; a failed ingestion
// can leave unreferenced blobs behind. That is a space leak, not a
// correctness hazard — blobs are immutable and a later ingestion of the
// same content reuses them.
func Ingest(ctx context.Context, st *store.Store, blobs blobstore.BlobStore, in IngestInput) (*models.IngestSummary, error) {
	if err := models.ValidateSlug(in.Slug); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	publishedAt := in.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = now
	}

	// Body blob
	body, err := os.ReadFile(in.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", in.FilePath, err)
	}
	bodyCID := models.ComputeCID(body)
	if _, err := blobs.Put(ctx, bodyCID, body, filepath.Ext(in.FilePath)); err != nil {
		return nil, fmt.Errorf("store body blob: %w", err)
	}

	// Asset blobs. Any unreadable or unwritable asset aborts the whole
	// ingestion before a version is recorded, so no version ever carries
	// an incomplete asset list.
	staged := make([]stagedAsset, 0, len(in.Assets))
	for _, a := range in.Assets {
		data, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("read asset %s: %w", a.Path, err)
		}
		cid := models.ComputeCID(data)
		if _, err := blobs.Put(ctx, cid, data, filepath.Ext(a.Path)); err != nil {
			return nil, fmt.Errorf("store asset blob %s: %w", a.Path, err)
		}
		staged = append(staged, stagedAsset{
			cid:         cid,
			mimeType:    detectMime(a.Path),
			filename:    filepath.Base(a.Path),
			description: a.Description,
		})
	}

	var summary *models.IngestSummary
	for attempt := 1; attempt <= ingestAttempts; attempt++ {
		err = st.WithTx(ctx, func(tx *store.Tx) error {
			if err := tx.UpsertPaper(in.Slug, in.Title, in.Abstract, publishedAt, bodyCID, now); err != nil {
				return err
			}

			version, err := tx.NextVersionNumber(in.Slug)
			if err != nil {
				return err
			}

			if err := tx.InsertVersion(in.Slug, version, bodyCID, in.Notes, now); err != nil {
				return err
			}

			for _, author := range in.Authors {
				if err := tx.LinkAuthor(in.Slug, author.DID, author.Name, author.ORCID); err != nil {
					return err
				}
				if err := tx.LinkVersionAuthor(in.Slug, version, author.DID); err != nil {
					return err
				}
			}

			for _, asset := range staged {
				if err := tx.LinkAsset(in.Slug, version, asset.cid, asset.mimeType, asset.filename, asset.description); err != nil {
					return err
				}
			}

			summary = &models.IngestSummary{
				Slug:          in.Slug,
				VersionNumber: version,
				AssetCount:    len(staged),
			}
			return nil
		})
		if err == nil || !errors.Is(err, store.ErrVersionConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// extraMimeTypes covers publication formats the builtin table misses.
var extraMimeTypes = map[string]string{
	".csv": "text/csv",
	".md":  "text/markdown",
	".tex": "application/x-tex",
	".bib": "text/x-bibtex",
}

// detectMime guesses a MIME type from the file extension, falling back to
// application/octet-stream. Parameters like charset are stripped.
func detectMime(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := extraMimeTypes[ext]; ok {
		return mt
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return "application/octet-stream"
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
