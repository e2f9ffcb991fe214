package types

import "time"

// MessageKind distinguishes text messages from media captions.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageVoice MessageKind = "voice"
	MessageImage MessageKind = "image"
)

// Valid reports whether k is a known kind.
func (k MessageKind) Valid() bool {
	switch k {
	case MessageText, MessageVoice, MessageImage:
		return true
	}
	return false
}

// Message is a stored message. Content and Preview hold payload strings,
// either "iv:ciphertext:tag" or legacy plaintext.
type Message struct {
	ID          MessageID   `json:"id"`
	MatchID     MatchID     `json:"match_id,omitempty"`
	SenderID    UserID      `json:"sender_id"`
	RecipientID UserID      `json:"recipient_id"`
	Kind        MessageKind `json:"kind"`
	Content     string      `json:"content"`
	Preview     string      `json:"preview,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DecryptedMessage is what MessageService returns for display. When Failed
// is set, Plaintext holds a placeholder rather than message content.
type DecryptedMessage struct {
	ID        MessageID   `json:"id"`
	From      UserID      `json:"from"`
	To        UserID      `json:"to"`
	Kind      MessageKind `json:"kind"`
	Plaintext string      `json:"plaintext"`
	Legacy    bool        `json:"legacy,omitempty"`
	Failed    bool        `json:"failed,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// SendRequest describes an outgoing message before encryption.
type SendRequest struct {
	From      UserID
	To        UserID
	MatchID   MatchID
	Kind      MessageKind
	Plaintext string
}
