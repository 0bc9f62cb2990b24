package models

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// Multihash-style prefix bytes. The identifier carries its own content-type
// and hash-algorithm tags so a future reader never needs external metadata
// to interpret it.
const (
	codecRaw     = 0x55 // raw binary content
	hashSHA2_256 = 0x12 // sha2-256 multihash code
)

// cidBasePrefix tags the encoding base of the identifier string.
const cidBasePrefix = "b"

// ComputeCID returns the canonical content identifier for a byte sequence:
// base58btc(0x55 | 0x12 | 0x20 | sha256(data)) with a leading base tag.
// It is pure; identical bytes always yield the identical string, regardless
// of where they came from. Empty input is valid.
func ComputeCID(data []byte) string {
	digest := sha256.Sum256(data)

	prefixed := make([]byte, 0, 3+sha256.Size)
	prefixed = append(prefixed, codecRaw, hashSHA2_256, sha256.Size)
	prefixed = append(prefixed, digest[:]...)

	return cidBasePrefix + base58.Encode(prefixed)
}
