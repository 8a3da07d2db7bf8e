package serialize

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hasher computes a content fingerprint.
type Hasher interface {
	// Hash returns the hex-encoded digest of data.
	Hash(data []byte) (string, error)
}

// blake2bHasher implements BLAKE2b-256.
type blake2bHasher struct{}

// Blake2b returns the default fingerprint hasher, BLAKE2b-256.
// The result is a hex-encoded 64-character string.
func Blake2b() Hasher {
	return blake2bHasher{}
}

func (blake2bHasher) Hash(data []byte) (string, error) {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha256Hasher implements SHA-256.
type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher for fingerprints that must match
// other tools. The result is a hex-encoded 64-character string.
func SHA256Hasher() Hasher {
	return sha256Hasher{}
}

func (sha256Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
