package types

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxUserIDLength bounds identifiers accepted for key derivation.
const maxUserIDLength = 256

// UserID is the stable account identifier. It is not secret.
type UserID string

// String returns the string form of the identifier.
func (u UserID) String() string { return string(u) }

// Validate reports whether u can be used for key derivation.
func (u UserID) Validate() error {
	s := string(u)
	switch {
	case s == "":
		return ErrMalformedIdentifier
	case len(s) > maxUserIDLength:
		return ErrMalformedIdentifier
	case !utf8.ValidString(s):
		return ErrMalformedIdentifier
	case strings.TrimSpace(s) != s:
		return ErrMalformedIdentifier
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return ErrMalformedIdentifier
		}
	}
	return nil
}

// ProfileID identifies a profile record in the profile store.
type ProfileID string

// String returns the string form of the identifier.
func (id ProfileID) String() string { return string(id) }

// MessageID identifies a stored message.
type MessageID string

// String returns the string form of the identifier.
func (id MessageID) String() string { return string(id) }

// MatchID identifies the match a conversation belongs to.
type MatchID string

// String returns the string form of the identifier.
func (id MatchID) String() string { return string(id) }
