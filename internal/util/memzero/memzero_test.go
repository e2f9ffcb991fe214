package memzero_test

import (
	"testing"

	"accord/internal/util/memzero"
)

func TestZero(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{0xff}
	memzero.Zero(a, nil, b)
	for i, v := range append(a, b...) {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}
