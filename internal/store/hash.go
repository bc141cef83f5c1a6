package store

import (
	"crypto/sha256"
	"encoding/hex"
)

// SourceHash returns the hex SHA-256 of a submitted source. History keeps
// the hash and length only, never the source itself.
func SourceHash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
