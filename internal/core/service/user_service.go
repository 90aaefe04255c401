package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

type UserService struct {
	repo     ports.UserRepository
	doctors  ports.DoctorRepository
	bookings ports.BookingRepository
	cache    ports.DoctorCache
	log      zerolog.Logger
}

// NewUserService wires the profile use cases. cache may be nil.
func NewUserService(
	repo ports.UserRepository,
	doctors ports.DoctorRepository,
	bookings ports.BookingRepository,
	cache ports.DoctorCache,
	log zerolog.Logger,
) *UserService {
	return &UserService{repo: repo, doctors: doctors, bookings: bookings, cache: cache, log: log}
}

// canAccess allows admins everywhere and everyone else only on their own record.
func canAccess(actor domain.Principal, id string) bool {
	return actor.Role == domain.RoleAdmin || actor.ID == id
}

func (s *UserService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.User, error) {
	if !canAccess(actor, id) {
		return nil, domain.ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Update(ctx context.Context, actor domain.Principal, id string, upd domain.UserUpdate) (*domain.User, error) {
	if !canAccess(actor, id) {
		return nil, domain.ErrForbidden
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if email == "" {
			return nil, domain.ErrMissingFields
		}
		upd.Email = &email
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the account. Deleting a doctor account also retires the
// doctor profile so it can no longer be listed or booked.
func (s *UserService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if !canAccess(actor, id) {
		return domain.ErrForbidden
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if u.Role == domain.RoleDoctor {
		// Retire the profile first: a failure here leaves the account intact
		// and the call can be retried.
		if err := s.doctors.SoftDelete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("retire doctor profile: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, id); err != nil {
				s.log.Warn().Err(err).Str("doctor_id", id).Msg("doctor cache invalidation failed")
			}
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("role", string(u.Role)).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

// MyAppointments lists the actor's bookings with the doctor each one is for.
func (s *UserService) MyAppointments(ctx context.Context, actor domain.Principal) ([]*domain.Appointment, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	bookings, err := s.bookings.ListByPatient(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return []*domain.Appointment{}, nil
	}

	seen := make(map[string]bool, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if !seen[b.DoctorID] {
			seen[b.DoctorID] = true
			ids = append(ids, b.DoctorID)
		}
	}
	doctors, err := s.doctors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Doctor, len(doctors))
	for _, d := range doctors {
		byID[d.ID] = d
	}

	out := make([]*domain.Appointment, len(bookings))
	for i, b := range bookings {
		out[i] = &domain.Appointment{Booking: *b, Doctor: byID[b.DoctorID]}
	}
	return out, nil
}
