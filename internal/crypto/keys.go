package crypto

import (
	"fmt"

	"accord/internal/domain"
)

const (
	// AppSalt is prepended to the user identifier before hashing. It must be
	// identical in every client build and in the migration job.
	AppSalt = "accord_e2e_encryption_v1_"

	// ProtocolVersion is bumped together with AppSalt.
	ProtocolVersion = 1
)

// DeriveKeyPair derives the key pair for id:
//
//	private = hex(SHA-256(AppSalt || id))
//	public  = hex(SHA-256(private))
//
// The public key hashes the hex string of the private key, not its raw bytes,
// so that every platform computes it the same way.
func DeriveKeyPair(id domain.UserID) (domain.KeyPair, error) {
	if err := id.Validate(); err != nil {
		return domain.KeyPair{}, fmt.Errorf("derive key pair for %q: %w", id, err)
	}
	priv := domain.PrivateKey(DigestString(AppSalt + id.String()))
	return domain.KeyPair{Private: priv, Public: PublicFromPrivate(priv)}, nil
}

// PublicFromPrivate returns the public key belonging to priv.
func PublicFromPrivate(priv domain.PrivateKey) domain.PublicKey {
	return domain.PublicKey(DigestString(priv.Hex()))
}

// ExpectedPublicKey returns the public key every client derives for id. The
// migration compares stored keys against it.
func ExpectedPublicKey(id domain.UserID) (domain.PublicKey, error) {
	kp, err := DeriveKeyPair(id)
	if err != nil {
		return "", err
	}
	return kp.Public, nil
}
