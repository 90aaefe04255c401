package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
	"github.com/medicare/booking-api/internal/pkg/metrics"
)

type DoctorService struct {
	repo  ports.DoctorRepository
	cache ports.DoctorCache
	log   zerolog.Logger
}

// NewDoctorService wires the doctor use cases. cache may be nil.
func NewDoctorService(repo ports.DoctorRepository, cache ports.DoctorCache, log zerolog.Logger) *DoctorService {
	return &DoctorService{repo: repo, cache: cache, log: log}
}

// Get returns a publicly visible doctor, consulting the cache first. Cache
// errors degrade to a direct read that is not written back.
func (s *DoctorService) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		d, ok, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			metrics.DoctorCacheTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("doctor_id", id).Msg("doctor cache read failed")
		case ok:
			metrics.DoctorCacheTotal.WithLabelValues("hit").Inc()
			return d, nil
		default:
			metrics.DoctorCacheTotal.WithLabelValues("miss").Inc()
			// The version must be read before the store so a concurrent
			// invalidation makes the write-back below a no-op.
			if v, err := s.cache.Version(ctx, id); err == nil {
				version, cacheable = v, true
			} else {
				s.log.Warn().Err(err).Str("doctor_id", id).Msg("doctor cache version read failed")
			}
		}
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Deleted {
		return nil, domain.ErrDoctorNotFound
	}

	if cacheable {
		if err := s.cache.Set(ctx, d, version); err != nil {
			s.log.Warn().Err(err).Str("doctor_id", id).Msg("doctor cache write failed")
		}
	}
	return d, nil
}

// List returns approved doctors, optionally filtered by a search query.
func (s *DoctorService) List(ctx context.Context, query string) ([]*domain.Doctor, error) {
	return s.repo.List(ctx, ports.ListDoctorsFilter{
		Query:        strings.TrimSpace(query),
		ApprovedOnly: true,
	})
}

// UpdateProfile lets a doctor create or edit their own profile.
func (s *DoctorService) UpdateProfile(ctx context.Context, actor domain.Principal, id string, profile domain.DoctorProfile) (*domain.Doctor, error) {
	if actor.ID != id {
		return nil, domain.ErrForbidden
	}
	if p := profile.TicketPrice; p != nil && !domain.ValidTicketPrice(*p) {
		return nil, domain.ErrInvalidPrice
	}

	d, err := s.repo.Upsert(ctx, id, profile)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return d, nil
}

// Delete soft-deletes the actor's own doctor profile.
func (s *DoctorService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if actor.ID != id {
		return domain.ErrForbidden
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// SetApproval records an admin decision on a doctor profile.
func (s *DoctorService) SetApproval(ctx context.Context, id string, status string) (*domain.Doctor, error) {
	approval, err := domain.ParseApproval(status)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.SetApproval(ctx, id, approval)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.log.Info().Str("doctor_id", id).Str("approval", string(approval)).Msg("doctor approval updated")
	return d, nil
}

func (s *DoctorService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Str("doctor_id", id).Msg("doctor cache invalidation failed")
	}
}
