package server

import "accord/internal/domain"

// ProfileRequest is the body of PUT /v1/profiles/:userID. Empty fields keep
// the stored value.
type ProfileRequest struct {
	DisplayName         string           `json:"display_name,omitempty"`
	EncryptionPublicKey domain.PublicKey `json:"encryption_public_key,omitempty"`
}

// PublicKeyResponse is returned by GET /v1/profiles/:userID/public-key.
type PublicKeyResponse struct {
	UserID    domain.UserID    `json:"userId"`
	PublicKey domain.PublicKey `json:"publicKey"`
}

// MessagesResponse is returned by GET /v1/messages.
type MessagesResponse struct {
	Messages []domain.Message `json:"messages"`
}

// ErrorResponse carries the message of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Header names understood by the server.
const (
	HeaderUser          = "X-Accord-User"
	HeaderAuthorization = "Authorization"
)
