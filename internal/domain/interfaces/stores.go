package interfaces

import (
	"context"

	domaintypes "accord/internal/domain/types"
)

// KeyDirectory resolves and publishes users' encryption public keys.
type KeyDirectory interface {
	// PublicKey returns the stored public key for user; ok is false when the
	// user has none.
	PublicKey(ctx context.Context, user domaintypes.UserID) (key domaintypes.PublicKey, ok bool, err error)
	// PublishPublicKey stores key on user's profile.
	PublishPublicKey(ctx context.Context, user domaintypes.UserID, key domaintypes.PublicKey) error
}

// ProfileStore persists profile records.
type ProfileStore interface {
	KeyDirectory

	GetProfile(ctx context.Context, user domaintypes.UserID) (domaintypes.Profile, error)
	SaveProfile(ctx context.Context, profile domaintypes.Profile) error
	ListProfiles(ctx context.Context) ([]domaintypes.Profile, error)
	// SetPublicKey overwrites the stored public key of one profile record.
	SetPublicKey(ctx context.Context, id domaintypes.ProfileID, key domaintypes.PublicKey) error
}

// MessageStore persists payload strings verbatim.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg domaintypes.Message) error
	// ListConversation returns messages exchanged between a and b, oldest first.
	ListConversation(ctx context.Context, a, b domaintypes.UserID) ([]domaintypes.Message, error)
}

// NotificationQueue holds user-facing notices until the delivery pipeline
// drains them.
type NotificationQueue interface {
	Enqueue(ctx context.Context, n domaintypes.Notification) error
	// Drain removes and returns up to limit notifications, oldest first.
	// A limit below 1 drains everything.
	Drain(ctx context.Context, limit int) ([]domaintypes.Notification, error)
	Len(ctx context.Context) (int, error)
}
