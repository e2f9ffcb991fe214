package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"accord/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub domain.PublicKey) string {
	sum := sha256.Sum256([]byte(pub))
	return hex.EncodeToString(sum[:10])
}

// SafetyNumber returns a value both users of a conversation can compare out
// of band. It does not depend on argument order.
func SafetyNumber(a, b domain.PublicKey) string {
	lo, hi := string(a), string(b)
	if hi < lo {
		lo, hi = hi, lo
	}
	sum := sha256.Sum256([]byte(lo + hi))
	digits := hex.EncodeToString(sum[:15])

	groups := make([]string, 0, len(digits)/5)
	for i := 0; i < len(digits); i += 5 {
		groups = append(groups, digits[i:i+5])
	}
	return strings.Join(groups, " ")
}
