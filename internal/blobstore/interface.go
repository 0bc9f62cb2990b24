// Package blobstore provides content-addressable blob storage for paper
// bodies and supplemental assets.
package blobstore

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned when a requested blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// ErrCIDMismatch is returned when the computed CID of blob data does not match the expected CID.
var ErrCIDMismatch = errors.New("blob cid mismatch")

// BlobStore defines the contract for content-addressable binary storage.
// The CID is the blob's only identity; the extension is advisory metadata
// kept for the convenience of external tools.
type BlobStore interface {
	// Has checks whether a blob with the given CID exists.
	Has(ctx context.Context, cid string) (bool, error)

	// Get returns the blob data and its advisory extension.
	// Returns ErrBlobNotFound if the blob does not exist.
	Get(ctx context.Context, cid string) ([]byte, string, error)

	// Put stores a blob under its CID and returns the stored location.
	// The CID is verified against the data. Idempotent — storing content
	// that already exists is a no-op, regardless of extension.
	Put(ctx context.Context, cid string, data []byte, ext string) (string, error)

	// TotalCount returns the number of stored blobs.
	TotalCount(ctx context.Context) (int, error)

	// ListCIDs returns all blob CIDs in the store.
	ListCIDs(ctx context.Context) ([]string, error)
}
