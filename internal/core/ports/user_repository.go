package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// UserRepository covers profile persistence for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// UserService exposes profile operations with ownership checks.
type UserService interface {
	Get(ctx context.Context, actor domain.Principal, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, actor domain.Principal, id string, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	MyAppointments(ctx context.Context, actor domain.Principal) ([]*domain.Appointment, error)
}
