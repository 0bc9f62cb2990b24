package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore creates a SQLite store in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Initialize())
	t.Cleanup(func() { st.Close() })
	return st
}

// countRows returns the row count of a table.
func countRows(t *testing.T, st *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, st.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// seedPaper inserts a paper with one version.
func seedPaper(t *testing.T, st *Store, slug, cid string) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := st.WithTx(context.Background(), func(tx *Tx) error {
		if err := tx.UpsertPaper(slug, "Title", "", now, cid, now); err != nil {
			return err
		}
		return tx.InsertVersion(slug, 1, cid, "", now)
	})
	require.NoError(t, err)
}

// ==================== Schema Tests ====================

func TestStore_Initialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Initialize())

	// Idempotent
	assert.NoError(t, st.Initialize())

	papers, err := st.ListPapers()
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestStore_RunMigrations(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.RunMigrations())

	// Running again should be idempotent
	assert.NoError(t, st.RunMigrations())
}

// ==================== Paper Tests ====================

func TestStore_UpsertPaper_InsertThenUpdate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := st.WithTx(ctx, func(tx *Tx) error {
		return tx.UpsertPaper("test-paper", "Original", "First abstract", created, "bCID1", created)
	})
	require.NoError(t, err)

	p, err := st.GetPaper("test-paper")
	require.NoError(t, err)
	assert.Equal(t, "Original", p.Title)
	assert.Equal(t, "bCID1", p.LatestVersionCID)

	// Re-ingest overwrites metadata, last write wins; created_at stays
	later := created.Add(48 * time.Hour)
	err = st.WithTx(ctx, func(tx *Tx) error {
		return tx.UpsertPaper("test-paper", "Revised", "New abstract", later, "bCID2", later)
	})
	require.NoError(t, err)

	p, err = st.GetPaper("test-paper")
	require.NoError(t, err)
	assert.Equal(t, "Revised", p.Title)
	assert.Equal(t, "New abstract", p.Abstract)
	assert.Equal(t, "bCID2", p.LatestVersionCID)
	assert.True(t, p.CreatedAt.Equal(created), "created_at must not change on update")
	assert.True(t, p.UpdatedAt.Equal(later))

	assert.Equal(t, 1, countRows(t, st, "paper"))
}

func TestStore_GetPaper_Unknown(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetPaper("nope")
	assert.ErrorIs(t, err, ErrUnknownPaper)
}

// ==================== Version Tests ====================

func TestStore_NextVersionNumber(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	err := st.WithTx(ctx, func(tx *Tx) error {
		if err := tx.UpsertPaper("p", "T", "", now, "bCID1", now); err != nil {
			return err
		}

		// No versions yet
		next, err := tx.NextVersionNumber("p")
		if err != nil {
			return err
		}
		assert.Equal(t, 1, next)

		for i := 1; i <= 3; i++ {
			if err := tx.InsertVersion("p", i, "bCID1", "", now); err != nil {
				return err
			}
		}

		next, err = tx.NextVersionNumber("p")
		if err != nil {
			return err
		}
		assert.Equal(t, 4, next)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_InsertVersion_Conflict(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "p", "bCID1")

	now := time.Now().UTC()
	err := st.WithTx(context.Background(), func(tx *Tx) error {
		return tx.InsertVersion("p", 1, "bCID2", "", now)
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	// The existing version row is unchanged
	versions, err := st.ListVersions("p")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "bCID1", versions[0].BodyCID)
}

func TestStore_InsertVersion_UnknownPaper(t *testing.T) {
	st := newTestStore(t)

	err := st.WithTx(context.Background(), func(tx *Tx) error {
		return tx.InsertVersion("ghost", 1, "bCID1", "", time.Now().UTC())
	})
	assert.ErrorIs(t, err, ErrUnknownPaper)
	assert.Equal(t, 0, countRows(t, st, "paper_version"))
}

// ==================== Link Tests ====================

func TestStore_LinkAuthor_Idempotent(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "p", "bCID1")
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		return tx.LinkAuthor("p", "did:example:1", "Jane Doe", "0000-0002-1825-0097")
	})
	require.NoError(t, err)

	// Re-linking with different attributes is a no-op; first write wins
	err = st.WithTx(ctx, func(tx *Tx) error {
		return tx.LinkAuthor("p", "did:example:1", "J. Doe", "")
	})
	require.NoError(t, err)

	authors, err := st.ListAuthors("p")
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Jane Doe", authors[0].Name)
	assert.Equal(t, "0000-0002-1825-0097", authors[0].ORCID)
}

func TestStore_LinkVersionAuthor_Idempotent(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "p", "bCID1")
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		if err := tx.LinkAuthor("p", "did:example:1", "", ""); err != nil {
			return err
		}
		if err := tx.LinkVersionAuthor("p", 1, "did:example:1"); err != nil {
			return err
		}
		return tx.LinkVersionAuthor("p", 1, "did:example:1")
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, st, "paper_version_author"))
}

func TestStore_LinkAsset_Idempotent(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "p", "bCID1")
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx *Tx) error {
		if err := tx.LinkAsset("p", 1, "bAsset1", "text/csv", "data.csv", "raw data"); err != nil {
			return err
		}
		return tx.LinkAsset("p", 1, "bAsset1", "text/csv", "data.csv", "raw data")
	})
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, st, "paper_asset"))
}

func TestStore_LinkAsset_SameCIDDistinctFilenames(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "p", "bCID1")

	// Identical content under two filenames: one blob, two asset rows
	err := st.WithTx(context.Background(), func(tx *Tx) error {
		if err := tx.LinkAsset("p", 1, "bAsset1", "text/csv", "run-a.csv", "first run"); err != nil {
			return err
		}
		return tx.LinkAsset("p", 1, "bAsset1", "text/csv", "run-b.csv", "second run")
	})
	require.NoError(t, err)

	assets, err := st.ListAssets("p", 1)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, assets[0].AssetCID, assets[1].AssetCID)
	assert.NotEqual(t, assets[0].Filename, assets[1].Filename)
}

func TestStore_LinkAsset_UnknownPaper(t *testing.T) {
	st := newTestStore(t)

	err := st.WithTx(context.Background(), func(tx *Tx) error {
		return tx.LinkAsset("ghost", 1, "bAsset1", "text/csv", "data.csv", "")
	})
	assert.ErrorIs(t, err, ErrUnknownPaper)
	assert.Equal(t, 0, countRows(t, st, "paper_asset"))
}

// ==================== Transaction Tests ====================

func TestStore_WithTx_RollbackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Seed a committed state
	seedPaper(t, st, "p", "bCID1")

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx *Tx) error {
		if err := tx.UpsertPaper("p", "Changed", "", now, "bCID9", now); err != nil {
			return err
		}
		if err := tx.InsertVersion("p", 2, "bCID9", "", now); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Nothing from the failed transaction is visible
	p, err := st.GetPaper("p")
	require.NoError(t, err)
	assert.Equal(t, "Title", p.Title)
	assert.Equal(t, "bCID1", p.LatestVersionCID)
	assert.Equal(t, 1, countRows(t, st, "paper_version"))
}

func TestStore_WithTx_VersionConflictRollsBackUpsert(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "p", "bCID1")

	now := time.Now().UTC()
	err := st.WithTx(context.Background(), func(tx *Tx) error {
		if err := tx.UpsertPaper("p", "Changed", "", now, "bCID9", now); err != nil {
			return err
		}
		// Collides with the seeded version 1
		return tx.InsertVersion("p", 1, "bCID9", "", now)
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	p, err := st.GetPaper("p")
	require.NoError(t, err)
	assert.Equal(t, "bCID1", p.LatestVersionCID)
}

// ==================== Query Tests ====================

func TestStore_ListPapersAndVersions(t *testing.T) {
	st := newTestStore(t)
	seedPaper(t, st, "paper-a", "bCIDa")
	seedPaper(t, st, "paper-b", "bCIDb")

	papers, err := st.ListPapers()
	require.NoError(t, err)
	assert.Len(t, papers, 2)

	now := time.Now().UTC()
	err = st.WithTx(context.Background(), func(tx *Tx) error {
		return tx.InsertVersion("paper-a", 2, "bCIDa2", "second pass", now)
	})
	require.NoError(t, err)

	versions, err := st.ListVersions("paper-a")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	// Newest first
	assert.Equal(t, 2, versions[0].VersionNumber)
	assert.Equal(t, "second pass", versions[0].Notes)
	assert.Equal(t, 1, versions[1].VersionNumber)
}
