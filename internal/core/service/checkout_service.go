package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
	"github.com/medicare/booking-api/internal/pkg/metrics"
)

const (
	defaultCheckoutTimeout = 10 * time.Second
	defaultCurrency        = "usd"
)

// CheckoutConfig holds the orchestrator's tunables.
type CheckoutConfig struct {
	Currency string
	// Timeout bounds the payment provider call. Zero means 10s.
	Timeout time.Duration
}

// CheckoutService turns a booking request into a payment provider session.
// It keeps no state: every call is an independent attempt, and two calls for
// the same doctor create two provider sessions.
type CheckoutService struct {
	doctors  ports.DoctorRepository
	users    ports.UserRepository
	provider ports.PaymentProvider
	currency string
	timeout  time.Duration
	newID    func() string
	log      zerolog.Logger
}

func NewCheckoutService(
	doctors ports.DoctorRepository,
	users ports.UserRepository,
	provider ports.PaymentProvider,
	cfg CheckoutConfig,
	log zerolog.Logger,
) *CheckoutService {
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCheckoutTimeout
	}
	return &CheckoutService{
		doctors:  doctors,
		users:    users,
		provider: provider,
		currency: currency,
		timeout:  timeout,
		newID:    uuid.NewString,
		log:      log,
	}
}

// CreateCheckoutSession resolves the doctor, checks it can be booked, prices
// the session and asks the provider for a hosted checkout. Provider failures
// are surfaced, never retried.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, principal domain.Principal, doctorID string) (*domain.CheckoutSession, error) {
	stage := domain.StageRequested
	if principal.ID == "" {
		return nil, s.fail(stage, domain.ErrUnauthorized)
	}

	// 1. Resolve.
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, s.fail(stage, domain.ErrDoctorNotFound)
		}
		return nil, fmt.Errorf("checkout: resolve doctor: %w", err)
	}
	stage = domain.StageResolved

	// 2. Validate bookability and price.
	if !doctor.Bookable() {
		return nil, s.fail(stage, domain.ErrDoctorNotBookable)
	}
	amount := doctor.TicketPrice
	if amount <= 0 || !domain.ValidTicketPrice(amount) {
		return nil, s.fail(stage, domain.ErrInvalidPrice)
	}
	stage = domain.StageValidated

	ref := domain.CheckoutReference{
		AttemptID:   s.newID(),
		PrincipalID: principal.ID,
		DoctorID:    doctor.ID,
	}

	// 3. Create the provider session.
	req := ports.PaymentSessionRequest{
		Amount:        amount,
		Currency:      s.currency,
		ProductName:   doctor.Name,
		Description:   doctor.Bio,
		ImageURL:      doctor.Photo,
		CustomerEmail: s.customerEmail(ctx, principal.ID),
		Reference:     ref,
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	session, err := s.provider.CreateSession(callCtx, req)
	metrics.CheckoutProviderDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		s.log.Error().Err(err).
			Str("attempt_id", ref.AttemptID).
			Str("doctor_id", ref.DoctorID).
			Str("principal_id", ref.PrincipalID).
			Msg("payment provider session creation failed")
		return nil, s.fail(stage, fmt.Errorf("%w: %w", domain.ErrProviderError, err))
	}
	if session == nil || session.ID == "" || session.RedirectURL == "" {
		return nil, s.fail(stage, fmt.Errorf("%w: empty session returned", domain.ErrProviderError))
	}
	stage = domain.StageProviderSessionCreated

	metrics.CheckoutSessionsTotal.WithLabelValues("created", string(stage)).Inc()
	s.log.Info().
		Str("attempt_id", ref.AttemptID).
		Str("session_id", session.ID).
		Str("doctor_id", ref.DoctorID).
		Str("principal_id", ref.PrincipalID).
		Float64("amount", amount).
		Msg("checkout session created")

	return &domain.CheckoutSession{
		ID:          session.ID,
		PrincipalID: principal.ID,
		DoctorID:    doctor.ID,
		Amount:      amount,
		Currency:    s.currency,
		Status:      domain.CheckoutPending,
		RedirectURL: session.RedirectURL,
	}, nil
}

// customerEmail prefills the provider form. A missing user record does not
// block the checkout.
func (s *CheckoutService) customerEmail(ctx context.Context, userID string) string {
	if s.users == nil {
		return ""
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("principal_id", userID).Msg("checkout: customer lookup failed")
		return ""
	}
	return u.Email
}

func (s *CheckoutService) fail(stage domain.CheckoutStage, err error) error {
	metrics.CheckoutSessionsTotal.WithLabelValues(errorKind(err), string(stage)).Inc()
	return err
}

// errorKind maps an error to its taxonomy label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrProviderError):
		return "provider_error"
	default:
		return "internal"
	}
}
