package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

type ReviewService struct {
	reviews ports.ReviewRepository
	doctors ports.DoctorRepository
	cache   ports.DoctorCache
	queue   ports.RatingQueue
	log     zerolog.Logger
}

func NewReviewService(
	reviews ports.ReviewRepository,
	doctors ports.DoctorRepository,
	cache ports.DoctorCache,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{reviews: reviews, doctors: doctors, cache: cache, log: log}
}

// SetQueue attaches the dispatcher that recomputes ratings. The dispatcher
// itself depends on this service, hence the setter.
func (s *ReviewService) SetQueue(q ports.RatingQueue) {
	s.queue = q
}

// Create stores a review for an existing doctor and schedules a rating
// recomputation.
func (s *ReviewService) Create(ctx context.Context, actor domain.Principal, in ports.CreateReviewInput) (*domain.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	text := strings.TrimSpace(in.ReviewText)
	if text == "" {
		return nil, domain.ErrEmptyReview
	}

	doctor, err := s.doctors.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Deleted {
		return nil, domain.ErrDoctorNotFound
	}

	created, err := s.reviews.Create(ctx, &domain.Review{
		DoctorID:   doctor.ID,
		UserID:     actor.ID,
		ReviewText: text,
		Rating:     in.Rating,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if s.queue == nil || !s.queue.Enqueue(doctor.ID) {
		if err := s.RecalculateRating(ctx, doctor.ID); err != nil {
			s.log.Warn().Err(err).Str("doctor_id", doctor.ID).Msg("rating recalculation failed")
		}
	}

	s.log.Info().Str("review_id", created.ID).Str("doctor_id", doctor.ID).Int("rating", in.Rating).Msg("review created")
	return created, nil
}

// List returns reviews for one doctor, or all reviews when doctorID is empty.
func (s *ReviewService) List(ctx context.Context, doctorID string) ([]*domain.Review, error) {
	if doctorID != "" {
		if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
			return nil, err
		}
	}
	return s.reviews.List(ctx, doctorID)
}

// RecalculateRating aggregates all reviews of a doctor and stores the result
// on the doctor record.
func (s *ReviewService) RecalculateRating(ctx context.Context, doctorID string) error {
	summary, err := s.reviews.Summarize(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("recalculate rating: %w", err)
	}
	if err := s.doctors.SetRating(ctx, doctorID, summary); err != nil {
		return fmt.Errorf("recalculate rating: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, doctorID); err != nil {
			s.log.Warn().Err(err).Str("doctor_id", doctorID).Msg("doctor cache invalidation failed")
		}
	}
	return nil
}
