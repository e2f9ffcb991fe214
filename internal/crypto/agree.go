package crypto

import (
	"crypto/sha256"

	"accord/internal/domain"
)

const agreeLabel = "accord-agree-v1"

// Agree combines our private key with the counterpart's public key.
//
// Our public key is recomputed from priv and the two public keys are hashed
// in lexicographic order, so Agree(privA, pubB) == Agree(privB, pubA).
func Agree(priv domain.PrivateKey, peer domain.PublicKey) (domain.SharedSecret, error) {
	var secret domain.SharedSecret
	if !priv.Valid() || !peer.Valid() {
		return secret, domain.ErrInvalidKey
	}
	lo, hi := string(PublicFromPrivate(priv)), string(peer)
	if hi < lo {
		lo, hi = hi, lo
	}

	h := sha256.New()
	h.Write([]byte(agreeLabel))
	h.Write([]byte(lo))
	h.Write([]byte(hi))
	copy(secret[:], h.Sum(nil))
	return secret, nil
}
