package identity

import (
	"context"
	"fmt"

	"accord/internal/crypto"
	"accord/internal/domain"
	"accord/internal/observability"
)

// Service derives key pairs and talks to the key directory.
//
// The derived pair is:
//   - a private key, hex(SHA-256(AppSalt || user)), kept in memory only.
//   - a public key, hex(SHA-256(private)), published on the user's profile.
type Service struct {
	directory domain.KeyDirectory
	log       *observability.Logger
	metrics   *observability.Metrics
}

// New returns a key service backed by the given directory.
func New(directory domain.KeyDirectory, log *observability.Logger, metrics *observability.Metrics) *Service {
	if log == nil {
		log = observability.Nop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics(nil)
	}
	return &Service{directory: directory, log: log.WithComponent("identity"), metrics: metrics}
}

// OwnKeys derives the key pair of user.
func (s *Service) OwnKeys(user domain.UserID) (domain.KeyPair, error) {
	kp, err := crypto.DeriveKeyPair(user)
	if err != nil {
		return domain.KeyPair{}, err
	}
	s.metrics.RecordCrypto("derive")
	return kp, nil
}

// Publish makes sure the directory holds user's derived public key. It
// writes only when the stored key is missing or differs, which happens on
// first login and after the derivation scheme changed.
func (s *Service) Publish(ctx context.Context, user domain.UserID) (domain.PublicKey, bool, error) {
	kp, err := s.OwnKeys(user)
	if err != nil {
		return "", false, err
	}
	stored, ok, err := s.directory.PublicKey(ctx, user)
	if err != nil {
		return "", false, fmt.Errorf("read stored public key: %w", err)
	}
	if ok && stored == kp.Public {
		s.metrics.RecordKeyPublish(false)
		return kp.Public, false, nil
	}
	if err := s.directory.PublishPublicKey(ctx, user, kp.Public); err != nil {
		return "", false, fmt.Errorf("publish public key: %w", err)
	}
	s.metrics.RecordKeyPublish(true)
	s.log.KeyPublished(user, crypto.Fingerprint(kp.Public), true)
	return kp.Public, true, nil
}

// CounterpartKey fetches peer's published public key.
func (s *Service) CounterpartKey(ctx context.Context, peer domain.UserID) (domain.PublicKey, error) {
	key, ok, err := s.directory.PublicKey(ctx, peer)
	if err != nil {
		return "", fmt.Errorf("fetch public key of %q: %w", peer, err)
	}
	if !ok {
		return "", fmt.Errorf("%q: %w", peer, domain.ErrNoPublicKey)
	}
	if !key.Valid() {
		return "", fmt.Errorf("public key of %q: %w", peer, domain.ErrInvalidKey)
	}
	return key, nil
}

// SharedSecret derives me's private key, fetches peer's public key and runs
// the agreement. Callers should Wipe the result when done.
func (s *Service) SharedSecret(ctx context.Context, me, peer domain.UserID) (domain.SharedSecret, error) {
	kp, err := s.OwnKeys(me)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	peerKey, err := s.CounterpartKey(ctx, peer)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	secret, err := crypto.Agree(kp.Private, peerKey)
	if err != nil {
		return domain.SharedSecret{}, err
	}
	s.metrics.RecordCrypto("agree")
	return secret, nil
}

// SafetyNumber returns the comparison code for the conversation between me and peer.
func (s *Service) SafetyNumber(ctx context.Context, me, peer domain.UserID) (string, error) {
	kp, err := s.OwnKeys(me)
	if err != nil {
		return "", err
	}
	peerKey, err := s.CounterpartKey(ctx, peer)
	if err != nil {
		return "", err
	}
	return crypto.SafetyNumber(kp.Public, peerKey), nil
}

// Compile-time assertion that Service implements domain.KeyService.
var _ domain.KeyService = (*Service)(nil)
