package types

import "errors"

var (
	// ErrMalformedIdentifier is returned when a user identifier cannot be used
	// for key derivation.
	ErrMalformedIdentifier = errors.New("malformed user identifier")

	// ErrInvalidKey is returned when a key is not a 64-character lowercase hex digest.
	ErrInvalidKey = errors.New("invalid key encoding")

	// ErrDecryptionFailed is returned when an encrypted payload does not verify.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnauthorized is returned when a caller may not trigger an administrative job.
	ErrUnauthorized = errors.New("caller is not an administrator")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoPublicKey is returned when a counterpart has not published a public key.
	ErrNoPublicKey = errors.New("counterpart has no public key")
)
