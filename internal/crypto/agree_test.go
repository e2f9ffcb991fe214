package crypto_test

import (
	"errors"
	"fmt"
	"testing"

	"accord/internal/crypto"
	"accord/internal/domain"
)

func TestAgree_Commutative(t *testing.T) {
	for i := 0; i < 25; i++ {
		u1 := domain.UserID(fmt.Sprintf("user-%d", i))
		u2 := domain.UserID(fmt.Sprintf("match-%d", i*7))

		a, err := crypto.DeriveKeyPair(u1)
		if err != nil {
			t.Fatalf("DeriveKeyPair: %v", err)
		}
		b, err := crypto.DeriveKeyPair(u2)
		if err != nil {
			t.Fatalf("DeriveKeyPair: %v", err)
		}

		s1, err := crypto.Agree(a.Private, b.Public)
		if err != nil {
			t.Fatalf("Agree a->b: %v", err)
		}
		s2, err := crypto.Agree(b.Private, a.Public)
		if err != nil {
			t.Fatalf("Agree b->a: %v", err)
		}
		if s1 != s2 {
			t.Fatalf("secrets differ for %s/%s", u1, u2)
		}
	}
}

func TestAgree_DifferentPairsDiffer(t *testing.T) {
	a, _ := crypto.DeriveKeyPair("user-A")
	b, _ := crypto.DeriveKeyPair("user-B")
	c, _ := crypto.DeriveKeyPair("user-C")

	ab, _ := crypto.Agree(a.Private, b.Public)
	ac, _ := crypto.Agree(a.Private, c.Public)
	if ab == ac {
		t.Fatal("distinct pairs must not share a secret")
	}
}

func TestAgree_InvalidKey(t *testing.T) {
	a, _ := crypto.DeriveKeyPair("user-A")
	if _, err := crypto.Agree(a.Private, "not-a-key"); !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey", err)
	}
	if _, err := crypto.Agree("", a.Public); !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("err = %v, want ErrInvalidKey", err)
	}
}

func TestSharedSecret_Wipe(t *testing.T) {
	a, _ := crypto.DeriveKeyPair("user-A")
	b, _ := crypto.DeriveKeyPair("user-B")
	s, _ := crypto.Agree(a.Private, b.Public)
	s.Wipe()
	if s != (domain.SharedSecret{}) {
		t.Fatal("Wipe left key material behind")
	}
}
