package payment

import (
	"context"
	"errors"

	"github.com/medicare/booking-api/internal/core/ports"
)

// ErrNotConfigured is returned when no payment provider credentials were supplied.
var ErrNotConfigured = errors.New("payment provider not configured")

// DisabledProvider stands in for Stripe when STRIPE_SECRET_KEY is unset, so the
// rest of the API can run locally. Every checkout fails with ErrNotConfigured.
type DisabledProvider struct{}

func (DisabledProvider) CreateSession(context.Context, ports.PaymentSessionRequest) (*ports.PaymentSession, error) {
	return nil, ErrNotConfigured
}
