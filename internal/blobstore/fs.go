package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgoldman0/scholar.app/internal/models"
)

// validCID matches a base58btc content identifier with its base tag.
var validCID = regexp.MustCompile(`^b[1-9A-HJ-NP-Za-km-z]+$`)

// extSuffix is the sidecar suffix recording a blob's advisory extension.
// The sidecar keys dedup checks off the CID alone: two byte-identical files
// ingested with different extensions converge on one stored object.
const extSuffix = ".ext"

// FSStore implements BlobStore using the local filesystem.
// A blob lives at {root}/{cid}{ext} with a {root}/{cid}.ext sidecar holding
// the extension, so the stored path can be reconstructed from the CID.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem-backed blob store rooted at the given directory.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Has checks whether a blob exists.
func (s *FSStore) Has(_ context.Context, cid string) (bool, error) {
	if !validCID.MatchString(cid) {
		return false, nil
	}
	_, err := os.Stat(s.sidecarPath(cid))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat blob %s: %w", cid, err)
	}
	return true, nil
}

// Get returns the blob data and its advisory extension.
// Returns ErrBlobNotFound if the blob does not exist.
func (s *FSStore) Get(_ context.Context, cid string) ([]byte, string, error) {
	if !validCID.MatchString(cid) {
		return nil, "", ErrBlobNotFound
	}
	ext, err := s.readExt(cid)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("read blob meta %s: %w", cid, err)
	}

	data, err := os.ReadFile(s.blobPath(cid, ext))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("read blob %s: %w", cid, err)
	}

	return data, ext, nil
}

// Put stores a blob under its CID. The data is verified against the CID.
// Idempotent — if content with this CID exists, this is a no-op and the
// existing location is returned, even when the extension differs.
func (s *FSStore) Put(_ context.Context, cid string, data []byte, ext string) (string, error) {
	if !validCID.MatchString(cid) {
		return "", fmt.Errorf("invalid blob cid: %q", cid)
	}

	// Check if already stored, keyed by CID alone
	if existing, err := s.readExt(cid); err == nil {
		return s.blobPath(cid, existing), nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read blob meta %s: %w", cid, err)
	}

	// Verify content against its identifier
	if computed := models.ComputeCID(data); computed != cid {
		return "", fmt.Errorf("expected %s, got %s: %w", cid, computed, ErrCIDMismatch)
	}

	ext = normalizeExt(ext)
	blobPath := s.blobPath(cid, ext)

	// Write to temp file, atomic rename — no partial blob is ever visible
	tmpFile, err := os.CreateTemp(s.root, ".blob-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write blob data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, blobPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename blob: %w", err)
	}

	// Sidecar last: its presence marks the blob complete
	if err := os.WriteFile(s.sidecarPath(cid), []byte(ext), 0644); err != nil {
		return "", fmt.Errorf("write blob meta: %w", err)
	}

	return blobPath, nil
}

// TotalCount returns the number of stored blobs by counting sidecars.
func (s *FSStore) TotalCount(ctx context.Context) (int, error) {
	cids, err := s.ListCIDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(cids), nil
}

// ListCIDs returns all blob CIDs by scanning the store root.
func (s *FSStore) ListCIDs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("scan blob root: %w", err)
	}

	var cids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, extSuffix) {
			continue
		}
		cid := strings.TrimSuffix(name, extSuffix)
		if validCID.MatchString(cid) {
			cids = append(cids, cid)
		}
	}

	return cids, nil
}

// blobPath returns the filesystem path for a blob.
func (s *FSStore) blobPath(cid, ext string) string {
	return filepath.Join(s.root, cid+ext)
}

// sidecarPath returns the filesystem path for a blob's extension sidecar.
func (s *FSStore) sidecarPath(cid string) string {
	return filepath.Join(s.root, cid+extSuffix)
}

// validExt matches a plain dotted extension like ".pdf".
var validExt = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// normalizeExt drops extensions that are unsafe as a path suffix,
// including anything that would collide with the sidecar suffix.
func normalizeExt(ext string) string {
	if ext == extSuffix || !validExt.MatchString(ext) {
		return ""
	}
	return ext
}

// readExt reads the advisory extension from a blob's sidecar.
func (s *FSStore) readExt(cid string) (string, error) {
	data, err := os.ReadFile(s.sidecarPath(cid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
