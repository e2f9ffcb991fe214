package crypto_test

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"accord/internal/crypto"
	"accord/internal/domain"
)

func secretFor(t *testing.T, me, peer domain.UserID) domain.SharedSecret {
	t.Helper()
	a, err := crypto.DeriveKeyPair(me)
	if err != nil {
		t.Fatalf("DeriveKeyPair(%s): %v", me, err)
	}
	b, err := crypto.DeriveKeyPair(peer)
	if err != nil {
		t.Fatalf("DeriveKeyPair(%s): %v", peer, err)
	}
	s, err := crypto.Agree(a.Private, b.Public)
	if err != nil {
		t.Fatalf("Agree: %v", err)
	}
	return s
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	msgs := []string{
		"",
		"hi",
		"see you at 10:30",
		"a:b:c",
		"émoji 🎉 and ünïcode",
		strings.Repeat("long message ", 500),
	}
	for _, m := range msgs {
		payload, err := crypto.Encrypt(m, s)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", m, err)
		}
		if !crypto.IsEncrypted(payload) {
			t.Fatalf("payload %q not recognised as encrypted", payload)
		}
		got, err := crypto.Decrypt(payload, s)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", m, err)
		}
		if got != m {
			t.Fatalf("round trip: got %q, want %q", got, m)
		}
	}
}

func TestEncryptDecrypt_AcrossParties(t *testing.T) {
	alice := secretFor(t, "user-A", "user-B")
	bob := secretFor(t, "user-B", "user-A")

	payload, err := crypto.Encrypt("hi", alice)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	got, err := crypto.Decrypt(payload, bob)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestEncrypt_Format(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	payload, err := crypto.Encrypt("hello", s)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	parts := strings.Split(payload, ":")
	if len(parts) != 3 {
		t.Fatalf("want 3 segments, got %d", len(parts))
	}
	if len(parts[0]) != crypto.IVSize*2 || len(parts[2]) != crypto.TagSize*2 {
		t.Fatalf("unexpected segment sizes iv=%d tag=%d", len(parts[0]), len(parts[2]))
	}
	if len(parts[1]) != len("hello")*2 {
		t.Fatalf("ciphertext segment length %d", len(parts[1]))
	}
}

func TestEncrypt_FreshIV(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		payload, err := crypto.Encrypt("same text", s)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		iv := strings.SplitN(payload, ":", 2)[0]
		if seen[iv] {
			t.Fatal("IV reused")
		}
		seen[iv] = true
	}
}

// flip returns payload with one bit flipped in byte i of the given segment.
func flip(t *testing.T, payload string, segment, i int) string {
	t.Helper()
	parts := strings.Split(payload, ":")
	b, err := hex.DecodeString(parts[segment])
	if err != nil {
		t.Fatalf("decode segment: %v", err)
	}
	b[i] ^= 0x01
	parts[segment] = hex.EncodeToString(b)
	return strings.Join(parts, ":")
}

func TestDecrypt_TamperDetected(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	payload, err := crypto.Encrypt("meet me at the cafe", s)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	for _, segment := range []int{0, 1, 2} {
		n := len(strings.Split(payload, ":")[segment]) / 2
		for i := 0; i < n; i++ {
			tampered := flip(t, payload, segment, i)
			got, err := crypto.Decrypt(tampered, s)
			if !errors.Is(err, domain.ErrDecryptionFailed) {
				t.Fatalf("segment %d byte %d: err = %v, want ErrDecryptionFailed", segment, i, err)
			}
			if got != "" {
				t.Fatalf("segment %d byte %d: returned text %q on failure", segment, i, got)
			}
		}
	}
}

func TestDecrypt_DamagedEncodingDetected(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	payload, err := crypto.Encrypt("meet me at the cafe", s)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	check := func(name, damaged string) {
		t.Helper()
		got, err := crypto.Decrypt(damaged, s)
		if !errors.Is(err, domain.ErrDecryptionFailed) {
			t.Fatalf("%s: err = %v, want ErrDecryptionFailed", name, err)
		}
		if got != "" {
			t.Fatalf("%s: returned text %q on failure", name, got)
		}
	}

	for segment := 0; segment < 3; segment++ {
		parts := strings.Split(payload, ":")
		for i := range parts[segment] {
			damaged := append([]string(nil), parts...)
			damaged[segment] = parts[segment][:i] + "g" + parts[segment][i+1:]
			check(fmt.Sprintf("segment %d char %d replaced", segment, i), strings.Join(damaged, ":"))
		}

		truncated := append([]string(nil), parts...)
		truncated[segment] = parts[segment][:len(parts[segment])-1]
		check(fmt.Sprintf("segment %d truncated", segment), strings.Join(truncated, ":"))
	}
}

func TestDecrypt_WrongSecret(t *testing.T) {
	payload, err := crypto.Encrypt("private", secretFor(t, "user-A", "user-B"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := crypto.Decrypt(payload, secretFor(t, "user-A", "user-C")); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("err = %v, want ErrDecryptionFailed", err)
	}
}

func TestDecrypt_LegacyPassThrough(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	for _, legacy := range []string{
		"hello world",
		"",
		"lunch at 12:45?",
		"one:two:three",
		"a:b:c:d",
	} {
		got, err := crypto.Decrypt(legacy, s)
		if err != nil {
			t.Fatalf("Decrypt(%q): %v", legacy, err)
		}
		if got != legacy {
			t.Fatalf("Decrypt(%q) = %q, want unchanged", legacy, got)
		}
	}
}

func TestDecrypt_MalformedCiphertextSegment(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	payload := strings.Repeat("a", crypto.IVSize*2) + ":zz-not-hex:" + strings.Repeat("b", crypto.TagSize*2)
	if _, err := crypto.Decrypt(payload, s); !errors.Is(err, domain.ErrDecryptionFailed) {
		t.Fatalf("err = %v, want ErrDecryptionFailed", err)
	}
}

func TestEncryptBytes_RoundTrip(t *testing.T) {
	s := secretFor(t, "user-A", "user-B")
	data := []byte{0x00, 0xff, 0x3a, 0x10}
	payload, err := crypto.EncryptBytes(data, s)
	if err != nil {
		t.Fatalf("EncryptBytes: %v", err)
	}
	got, err := crypto.DecryptBytes(payload, s)
	if err != nil {
		t.Fatalf("DecryptBytes: %v", err)
	}
	if hex.EncodeToString(got) != hex.EncodeToString(data) {
		t.Fatalf("got %x, want %x", got, data)
	}
}
