package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"

	"accord/internal/domain"
)

// payloadSeparator joins the three payload segments. Hex never contains it.
const payloadSeparator = ":"

// PayloadKind tells a stored payload string apart.
type PayloadKind int

const (
	// PayloadPlaintext is content stored before encryption was introduced.
	PayloadPlaintext PayloadKind = iota
	// PayloadEncrypted is an "iv:ciphertext:tag" payload.
	PayloadEncrypted
)

func (k PayloadKind) String() string {
	if k == PayloadEncrypted {
		return "encrypted"
	}
	return "plaintext"
}

// Payload is a parsed message payload. Text is set for PayloadPlaintext;
// IV, Ciphertext and Tag are set for PayloadEncrypted.
type Payload struct {
	Kind       PayloadKind
	Text       string
	IV         []byte
	Ciphertext []byte
	Tag        []byte
}

// ParsePayload classifies s by structure.
//
// A payload is encrypted when it has exactly three segments, the first and
// last are non-empty, and either the first is 2*IVSize characters long or the
// last is 2*TagSize characters long. Any other string, including text that
// happens to contain colons, is legacy plaintext. An encrypted payload whose
// segments are not hex of the right length returns ErrDecryptionFailed.
func ParsePayload(s string) (Payload, error) {
	parts := strings.Split(s, payloadSeparator)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" ||
		(len(parts[0]) != IVSize*2 && len(parts[2]) != TagSize*2) {
		return Payload{Kind: PayloadPlaintext, Text: s}, nil
	}

	iv, err := decodeSegment("iv", parts[0], IVSize)
	if err != nil {
		return Payload{}, err
	}
	ct, err := decodeSegment("ciphertext", parts[1], -1)
	if err != nil {
		return Payload{}, err
	}
	tag, err := decodeSegment("tag", parts[2], TagSize)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: PayloadEncrypted, IV: iv, Ciphertext: ct, Tag: tag}, nil
}

// decodeSegment decodes one hex segment; size < 0 accepts any length.
func decodeSegment(name, seg string, size int) ([]byte, error) {
	b, err := hex.DecodeString(seg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s segment: %v", domain.ErrDecryptionFailed, name, err)
	}
	if size >= 0 && len(b) != size {
		return nil, fmt.Errorf("%w: %s segment is %d bytes, want %d", domain.ErrDecryptionFailed, name, len(b), size)
	}
	return b, nil
}

// IsEncrypted reports whether s has the encrypted payload shape.
func IsEncrypted(s string) bool {
	p, err := ParsePayload(s)
	return err != nil || p.Kind == PayloadEncrypted
}

// String renders the payload in its stored form.
func (p Payload) String() string {
	if p.Kind == PayloadPlaintext {
		return p.Text
	}
	return hex.EncodeToString(p.IV) + payloadSeparator +
		hex.EncodeToString(p.Ciphertext) + payloadSeparator +
		hex.EncodeToString(p.Tag)
}
