package message

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"accord/internal/crypto"
	"accord/internal/domain"
	"accord/internal/observability"
)

const (
	// Placeholder is shown instead of a message that failed to decrypt.
	Placeholder = "message unavailable"

	// previewRunes bounds the activity-feed preview length.
	previewRunes = 40
)

// Service sends and reads messages through a MessageStore.
//
// High-level flow:
//   - Send: derive the sender's private key, fetch the recipient's public key,
//     agree on the shared secret, encrypt content and preview, store.
//   - Conversation: list stored messages, agree on the secret once, decrypt
//     each payload independently. Legacy plaintext passes through.
type Service struct {
	keys    domain.KeyService
	store   domain.MessageStore
	log     *observability.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

var (
	// ErrEmptyMessage is returned when a text message has no content.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrUnknownKind is returned for an unsupported message kind.
	ErrUnknownKind = errors.New("unknown message kind")
)

// New constructs a message Service.
func New(
	keys domain.KeyService,
	store domain.MessageStore,
	log *observability.Logger,
	metrics *observability.Metrics,
) *Service {
	if log == nil {
		log = observability.Nop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics(nil)
	}
	return &Service{
		keys:    keys,
		store:   store,
		log:     log.WithComponent("message"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Send encrypts req and stores the resulting message.
func (s *Service) Send(ctx context.Context, req domain.SendRequest) (domain.Message, error) {
	if req.Kind == "" {
		req.Kind = domain.MessageText
	}
	if !req.Kind.Valid() {
		return domain.Message{}, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}
	if req.Kind == domain.MessageText && req.Plaintext == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	secret, err := s.keys.SharedSecret(ctx, req.From, req.To)
	if err != nil {
		return domain.Message{}, err
	}
	defer secret.Wipe()

	content, err := crypto.Encrypt(req.Plaintext, secret)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encrypt content: %w", err)
	}
	preview, err := crypto.Encrypt(previewText(req.Kind, req.Plaintext), secret)
	if err != nil {
		return domain.Message{}, fmt.Errorf("encrypt preview: %w", err)
	}
	s.metrics.RecordCrypto("encrypt")

	msg := domain.Message{
		ID:          domain.MessageID(uuid.NewString()),
		MatchID:     req.MatchID,
		SenderID:    req.From,
		RecipientID: req.To,
		Kind:        req.Kind,
		Content:     content,
		Preview:     preview,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	return msg, nil
}

// Conversation returns the decrypted messages between me and peer, oldest
// first. Only store and transport errors fail the call; a message that does
// not decrypt comes back with Failed set and Placeholder as its text.
func (s *Service) Conversation(ctx context.Context, me, peer domain.UserID) ([]domain.DecryptedMessage, error) {
	msgs, err := s.store.ListConversation(ctx, me, peer)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	secret, secretErr := s.keys.SharedSecret(ctx, me, peer)
	if secretErr != nil && !keyUnavailable(secretErr) {
		return nil, secretErr
	}
	defer secret.Wipe()

	out := make([]domain.DecryptedMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, s.open(m, m.Content, secret, secretErr))
	}
	return out, nil
}

// Preview decrypts the activity-feed preview of msg for me, falling back to
// the content when the message has no preview.
func (s *Service) Preview(ctx context.Context, me domain.UserID, msg domain.Message) (domain.DecryptedMessage, error) {
	peer := msg.SenderID
	if peer == me {
		peer = msg.RecipientID
	}
	payload := msg.Preview
	if payload == "" {
		payload = msg.Content
	}

	secret, secretErr := s.keys.SharedSecret(ctx, me, peer)
	if secretErr != nil && !keyUnavailable(secretErr) {
		return domain.DecryptedMessage{}, secretErr
	}
	defer secret.Wipe()
	return s.open(msg, payload, secret, secretErr), nil
}

// open decrypts one payload. secretErr is the reason the pair has no usable
// secret, if any; legacy payloads do not need one.
func (s *Service) open(m domain.Message, payload string, secret domain.SharedSecret, secretErr error) domain.DecryptedMessage {
	out := domain.DecryptedMessage{
		ID:        m.ID,
		From:      m.SenderID,
		To:        m.RecipientID,
		Kind:      m.Kind,
		CreatedAt: m.CreatedAt,
	}

	p, err := crypto.ParsePayload(payload)
	if err == nil && p.Kind == crypto.PayloadPlaintext {
		s.metrics.RecordLegacyPayload()
		out.Plaintext = p.Text
		out.Legacy = true
		return out
	}
	if err == nil && secretErr != nil {
		err = secretErr
	}
	if err == nil {
		var pt []byte
		pt, err = crypto.Open(p, secret)
		if err == nil {
			s.metrics.RecordCrypto("decrypt")
			out.Plaintext = string(pt)
			return out
		}
	}

	s.metrics.RecordDecryptFailure()
	s.log.DecryptFailed(m.ID, m.SenderID, m.RecipientID, err)
	out.Plaintext = Placeholder
	out.Failed = true
	return out
}

// keyUnavailable reports whether err means the counterpart key is missing or
// corrupt, as opposed to a transport or store failure.
func keyUnavailable(err error) bool {
	return errors.Is(err, domain.ErrNoPublicKey) || errors.Is(err, domain.ErrInvalidKey)
}

func previewText(kind domain.MessageKind, text string) string {
	switch {
	case kind == domain.MessageVoice && text == "":
		return "Voice message"
	case kind == domain.MessageImage && text == "":
		return "Photo"
	}
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewRunes]) + "…"
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
