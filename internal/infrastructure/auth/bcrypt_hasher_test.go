package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "pw123" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Check("pw123", hash) {
		t.Fatalf("expected password to match")
	}
	if h.Check("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	if h := NewBcryptHasher(0); h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", h.cost)
	}
}
