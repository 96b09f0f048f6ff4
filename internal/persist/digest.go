package persist

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrDigestMismatch   = errors.New("snapshot digest mismatch")
)

// Digest returns the hex BLAKE2b-256 sum of a serialized world.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
