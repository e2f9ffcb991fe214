package types

// keyHexLength is the length of a hex-encoded SHA-256 digest.
const keyHexLength = 64

// PrivateKey is a hex SHA-256 digest derived from a user identifier.
// It is recomputed on demand and never persisted.
type PrivateKey string

// String hides the key material from accidental formatting.
func (PrivateKey) String() string { return "PrivateKey(redacted)" }

// Hex returns the hex encoding of the key.
func (k PrivateKey) Hex() string { return string(k) }

// Valid reports whether k is a well-formed digest.
func (k PrivateKey) Valid() bool { return isDigestHex(string(k)) }

// PublicKey is the hex SHA-256 digest of a PrivateKey. It is stored on the
// profile as encryption_public_key.
type PublicKey string

// String returns the hex encoding of the key.
func (k PublicKey) String() string { return string(k) }

// Valid reports whether k is a well-formed digest.
func (k PublicKey) Valid() bool { return isDigestHex(string(k)) }

// KeyPair holds a derived private key and its public key.
type KeyPair struct {
	Private PrivateKey
	Public  PublicKey
}

func isDigestHex(s string) bool {
	if len(s) != keyHexLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// SharedSecret is the symmetric secret two matched users agree on. It is
// recomputed for every encrypt or decrypt and never stored.
type SharedSecret [32]byte

// Wipe zeroes the secret.
func (s *SharedSecret) Wipe() {
	for i := range s {
		s[i] = 0
	}
}
