package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// ReviewRepository persists reviews and aggregates ratings.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	List(ctx context.Context, doctorID string) ([]*domain.Review, error)
	Summarize(ctx context.Context, doctorID string) (domain.RatingSummary, error)
}

// CreateReviewInput is the DTO passed from the transport layer.
type CreateReviewInput struct {
	DoctorID   string
	ReviewText string
	Rating     int
}

// RatingQueue schedules an asynchronous rating recomputation for a doctor.
type RatingQueue interface {
	// Enqueue reports false when the job could not be queued.
	Enqueue(doctorID string) bool
}

// ReviewService covers review use cases.
type ReviewService interface {
	Create(ctx context.Context, actor domain.Principal, in CreateReviewInput) (*domain.Review, error)
	List(ctx context.Context, doctorID string) ([]*domain.Review, error)
	RecalculateRating(ctx context.Context, doctorID string) error
}
