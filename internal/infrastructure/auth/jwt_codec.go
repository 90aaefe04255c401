// Package auth holds the concrete token codec and password hasher.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medicare/booking-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// SigningKey is the process-wide HMAC key. It is built once at startup and
// never mutated afterwards.
type SigningKey struct {
	secret []byte
}

// NewSigningKey copies secret into an immutable key. An empty secret is rejected.
func NewSigningKey(secret string) (SigningKey, error) {
	if secret == "" {
		return SigningKey{}, errors.New("jwt secret must be provided")
	}
	return SigningKey{secret: []byte(secret)}, nil
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTCodec issues and verifies HS256 tokens carrying the principal id (sub),
// role and expiry.
type JWTCodec struct {
	key    SigningKey
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option customises a JWTCodec.
type Option func(*JWTCodec)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec builds a codec. A non-positive ttl falls back to 24h.
func NewJWTCodec(key SigningKey, ttl time.Duration, opts ...Option) (*JWTCodec, error) {
	if len(key.secret) == 0 {
		return nil, errors.New("jwt codec: signing key is empty")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	c := &JWTCodec{key: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// Issue signs a token for p that expires after the configured TTL.
func (c *JWTCodec) Issue(p domain.Principal) (string, error) {
	if p.ID == "" || !p.Role.Valid() {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}
	now := c.now()
	claims := tokenClaims{
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry. The cause of a failure is
// deliberately dropped: callers only ever see domain.ErrUnauthorized.
func (c *JWTCodec) Verify(token string) (domain.Principal, error) {
	claims := &tokenClaims{}
	tkn, err := c.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key.secret, nil
	})
	if err != nil || !tkn.Valid {
		return domain.Principal{}, domain.ErrUnauthorized
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.Subject == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{ID: claims.Subject, Role: role}, nil
}
