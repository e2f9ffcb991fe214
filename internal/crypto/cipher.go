package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"accord/internal/domain"
	"accord/internal/util/memzero"
)

const (
	// IVSize is the AES-GCM nonce length in bytes.
	IVSize = 12
	// TagSize is the AES-GCM authentication tag length in bytes.
	TagSize = 16

	messageKeySize = 32
	messageKeyInfo = "accord-message-key-v1"
)

// Encrypt seals plaintext under secret and returns "iv:ciphertext:tag".
// A fresh random IV is drawn for every call.
func Encrypt(plaintext string, secret domain.SharedSecret) (string, error) {
	return EncryptBytes([]byte(plaintext), secret)
}

// EncryptBytes is Encrypt for binary content such as voice note captions.
func EncryptBytes(plaintext []byte, secret domain.SharedSecret) (string, error) {
	aead, err := newAEAD(secret)
	if err != nil {
		return "", err
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("read iv: %w", err)
	}
	sealed := aead.Seal(nil, iv, plaintext, nil)
	n := len(sealed) - TagSize
	p := Payload{
		Kind:       PayloadEncrypted,
		IV:         iv,
		Ciphertext: sealed[:n],
		Tag:        sealed[n:],
	}
	return p.String(), nil
}

// Decrypt opens a payload produced by Encrypt. Legacy plaintext payloads are
// returned unchanged. A payload that has the encrypted shape but does not
// verify under secret returns ErrDecryptionFailed and no text.
func Decrypt(payload string, secret domain.SharedSecret) (string, error) {
	b, err := DecryptBytes(payload, secret)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecryptBytes is Decrypt for binary content.
func DecryptBytes(payload string, secret domain.SharedSecret) ([]byte, error) {
	p, err := ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	if p.Kind == PayloadPlaintext {
		return []byte(p.Text), nil
	}
	return Open(p, secret)
}

// Open authenticates and decrypts an encrypted payload.
func Open(p Payload, secret domain.SharedSecret) ([]byte, error) {
	if p.Kind != PayloadEncrypted || len(p.IV) != IVSize || len(p.Tag) != TagSize {
		return nil, fmt.Errorf("%w: not an encrypted payload", domain.ErrDecryptionFailed)
	}
	aead, err := newAEAD(secret)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(p.Ciphertext)+TagSize)
	sealed = append(sealed, p.Ciphertext...)
	sealed = append(sealed, p.Tag...)
	pt, err := aead.Open(nil, p.IV, sealed, nil)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	return pt, nil
}

// newAEAD expands secret with HKDF-SHA256 into an AES-256-GCM key.
func newAEAD(secret domain.SharedSecret) (cipher.AEAD, error) {
	key := make([]byte, messageKeySize)
	defer memzero.Zero(key)

	r := hkdf.New(sha256.New, secret[:], nil, []byte(messageKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive message key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithTagSize(block, TagSize)
}
