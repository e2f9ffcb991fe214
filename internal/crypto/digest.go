package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestSize is the length of a hex-encoded digest.
const DigestSize = sha256.Size * 2

// Digest returns the lowercase hex SHA-256 of b.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DigestString returns the lowercase hex SHA-256 of the UTF-8 bytes of s.
func DigestString(s string) string { return Digest([]byte(s)) }
