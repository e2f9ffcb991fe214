package types

import "time"

// Profile is the subset of a user's profile record the encryption layer
// reads and writes.
type Profile struct {
	ID                  ProfileID `json:"id"`
	UserID              UserID    `json:"user_id"`
	DisplayName         string    `json:"display_name,omitempty"`
	EncryptionPublicKey PublicKey `json:"encryption_public_key,omitempty"`
	IsAdmin             bool      `json:"is_admin"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
