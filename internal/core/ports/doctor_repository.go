package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// ListDoctorsFilter narrows the public doctor listing.
type ListDoctorsFilter struct {
	Query        string // optional: case-insensitive match on name or specialization
	ApprovedOnly bool
}

// DoctorRepository is the data store for doctors. GetByID returns
// domain.ErrDoctorNotFound for unknown or malformed ids; soft-deleted doctors
// are still returned so callers can apply Bookable.
type DoctorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Doctor, error)
	// FindByIDs returns the doctors among ids that exist, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Doctor, error)
	List(ctx context.Context, filter ListDoctorsFilter) ([]*domain.Doctor, error)
	Upsert(ctx context.Context, id string, profile domain.DoctorProfile) (*domain.Doctor, error)
	SetApproval(ctx context.Context, id string, status domain.ApprovalStatus) (*domain.Doctor, error)
	SetRating(ctx context.Context, id string, summary domain.RatingSummary) error
	SoftDelete(ctx context.Context, id string) error
}

// DoctorCache is a read-through cache for single doctor lookups.
//
// Every Invalidate bumps a per-doctor generation. Readers take Version before
// loading from the store and pass it to Set, which skips the write when an
// invalidation happened in between.
type DoctorCache interface {
	Get(ctx context.Context, id string) (*domain.Doctor, bool, error)
	Version(ctx context.Context, id string) (int64, error)
	Set(ctx context.Context, d *domain.Doctor, version int64) error
	Invalidate(ctx context.Context, id string) error
}

// DoctorService covers doctor profile use cases.
type DoctorService interface {
	Get(ctx context.Context, id string) (*domain.Doctor, error)
	List(ctx context.Context, query string) ([]*domain.Doctor, error)
	UpdateProfile(ctx context.Context, actor domain.Principal, id string, profile domain.DoctorProfile) (*domain.Doctor, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	SetApproval(ctx context.Context, id string, status string) (*domain.Doctor, error)
}
