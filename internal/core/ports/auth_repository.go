package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// CredentialStore looks up and persists principals with their credential hash.
// Lookups return domain.ErrUserNotFound when nothing matches; Save returns
// domain.ErrUserExists when the username or email is taken.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PasswordHasher produces and checks one-way password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenCodec issues and verifies signed, time-bound identity tokens.
// Verify returns domain.ErrUnauthorized for every kind of failure.
type TokenCodec interface {
	Issue(principal domain.Principal) (token string, err error)
	Verify(token string) (domain.Principal, error)
}
