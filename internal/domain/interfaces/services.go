package interfaces

import (
	"context"

	domaintypes "accord/internal/domain/types"
)

// KeyService derives local keys and resolves counterpart keys.
type KeyService interface {
	OwnKeys(user domaintypes.UserID) (domaintypes.KeyPair, error)
	Publish(ctx context.Context, user domaintypes.UserID) (key domaintypes.PublicKey, changed bool, err error)
	CounterpartKey(ctx context.Context, peer domaintypes.UserID) (domaintypes.PublicKey, error)
	SharedSecret(ctx context.Context, me, peer domaintypes.UserID) (domaintypes.SharedSecret, error)
	SafetyNumber(ctx context.Context, me, peer domaintypes.UserID) (string, error)
}

// MessageService encrypts, stores, fetches and decrypts messages.
type MessageService interface {
	Send(ctx context.Context, req domaintypes.SendRequest) (domaintypes.Message, error)
	Conversation(ctx context.Context, me, peer domaintypes.UserID) ([]domaintypes.DecryptedMessage, error)
	Preview(ctx context.Context, me domaintypes.UserID, msg domaintypes.Message) (domaintypes.DecryptedMessage, error)
}

// MigrationService repairs drifted public keys across all profiles.
type MigrationService interface {
	Run(ctx context.Context, opts domaintypes.MigrationOptions) (domaintypes.MigrationSummary, error)
}
