package domain

import (
	interfaces "accord/internal/domain/interfaces"
	types "accord/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	UserID           = types.UserID
	ProfileID        = types.ProfileID
	MessageID        = types.MessageID
	MatchID          = types.MatchID
	PrivateKey       = types.PrivateKey
	PublicKey        = types.PublicKey
	KeyPair          = types.KeyPair
	SharedSecret     = types.SharedSecret
	Profile          = types.Profile
	MessageKind      = types.MessageKind
	Message          = types.Message
	DecryptedMessage = types.DecryptedMessage
	SendRequest      = types.SendRequest
	Notification     = types.Notification
	MigrationStatus  = types.MigrationStatus
	MigrationRecord  = types.MigrationRecord
	MigrationSummary = types.MigrationSummary
	MigrationOptions = types.MigrationOptions
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	KeyDirectory      = interfaces.KeyDirectory
	ProfileStore      = interfaces.ProfileStore
	MessageStore      = interfaces.MessageStore
	NotificationQueue = interfaces.NotificationQueue
	KeyService        = interfaces.KeyService
	MessageService    = interfaces.MessageService
	MigrationService  = interfaces.MigrationService
)

const (
	MessageText  = types.MessageText
	MessageVoice = types.MessageVoice
	MessageImage = types.MessageImage

	MigrationAlreadyCorrect = types.MigrationAlreadyCorrect
	MigrationFixed          = types.MigrationFixed
	MigrationWouldFix       = types.MigrationWouldFix
	MigrationError          = types.MigrationError

	NotificationKeyRepaired = types.NotificationKeyRepaired
)

// Sentinel errors shared across packages.
var (
	ErrMalformedIdentifier = types.ErrMalformedIdentifier
	ErrInvalidKey          = types.ErrInvalidKey
	ErrDecryptionFailed    = types.ErrDecryptionFailed
	ErrUnauthorized        = types.ErrUnauthorized
	ErrNotFound            = types.ErrNotFound
	ErrNoPublicKey         = types.ErrNoPublicKey
)
