// Package digest computes blake2b-256 content digests used for integrity
// checks and local cache keys.
package digest

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Sum returns the lowercase hex blake2b-256 digest of data.
func Sum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// New returns a fresh blake2b-256 hasher.
func New() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for invalid key sizes; nil key cannot fail.
		panic(err)
	}
	return h
}

// SumReader digests everything readable from r and returns the hex digest
// together with the number of bytes consumed.
func SumReader(r io.Reader) (string, int64, error) {
	h := New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, fmt.Errorf("digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
