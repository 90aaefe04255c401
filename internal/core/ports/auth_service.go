package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// RegisterInput carries a self-service registration. Role is optional and
// defaults to patient.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Name     string
	Role     string
}

// AuthService is the entry point for registration, login and per-request
// authentication.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}
