package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medicare/booking-api/internal/core/domain"
)

func newTestCodec(t *testing.T, secret string, opts ...Option) *JWTCodec {
	t.Helper()
	key, err := NewSigningKey(secret)
	if err != nil {
		t.Fatalf("signing key: %v", err)
	}
	codec, err := NewJWTCodec(key, time.Hour, opts...)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return codec
}

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	codec := newTestCodec(t, "secret")

	token, err := codec.Issue(domain.Principal{ID: "alice", Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	p, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if p.ID != "alice" || p.Role != domain.RolePatient {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestJWTCodec_ExpiredToken(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	issuer := newTestCodec(t, "secret", WithClock(func() time.Time { return past }))
	verifier := newTestCodec(t, "secret")

	token, err := issuer.Issue(domain.Principal{ID: "alice", Role: domain.RoleDoctor})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Signature is valid; only the expiry has passed.
	if _, err := issuer.Verify(token); err != nil {
		t.Fatalf("expected token valid at issue time, got %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec(t, "secret")
	token, err := codec.Issue(domain.Principal{ID: "alice", Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The last character of each base64url segment may carry padding bits
	// that decode identically, so those positions are skipped.
	skip := map[int]bool{len(token) - 1: true}
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			skip[i] = true
			skip[i-1] = true
		}
	}

	for i := 0; i < len(token); i++ {
		if skip[i] {
			continue
		}
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := codec.Verify(string(b)); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("byte %d altered: expected ErrUnauthorized, got %v", i, err)
		}
	}
}

func TestJWTCodec_WrongKey(t *testing.T) {
	token, err := newTestCodec(t, "secret").Issue(domain.Principal{ID: "alice", Role: domain.RolePatient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestCodec(t, "other").Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestJWTCodec_RejectsOtherAlgorithms(t *testing.T) {
	codec := newTestCodec(t, "secret")
	claims := tokenClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mallory",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := codec.Verify(hs512); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected HS512 token rejected, got %v", err)
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := codec.Verify(none); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unsigned token rejected, got %v", err)
	}
}

func TestJWTCodec_RejectsMissingExpiryAndUnknownRole(t *testing.T) {
	codec := newTestCodec(t, "secret")

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role:             "patient",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "alice"},
	}).SignedString([]byte("secret"))
	if _, err := codec.Verify(noExp); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected token without exp rejected, got %v", err)
	}

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Role: "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	if _, err := codec.Verify(badRole); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unknown role rejected, got %v", err)
	}
}

func TestJWTCodec_Malformed(t *testing.T) {
	codec := newTestCodec(t, "secret")
	for _, tok := range []string{"", "not-a-token", "a.b.c", strings.Repeat("x", 300)} {
		if _, err := codec.Verify(tok); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%q: expected ErrUnauthorized, got %v", tok, err)
		}
	}
}

func TestJWTCodec_IssueRejectsInvalidPrincipal(t *testing.T) {
	codec := newTestCodec(t, "secret")
	if _, err := codec.Issue(domain.Principal{ID: "", Role: domain.RolePatient}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty id, got %v", err)
	}
	if _, err := codec.Issue(domain.Principal{ID: "x", Role: "guest"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestNewSigningKey_Empty(t *testing.T) {
	if _, err := NewSigningKey(""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
