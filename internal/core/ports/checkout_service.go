package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// PaymentSessionRequest is what the orchestrator asks the provider for.
// Amount is in major currency units.
type PaymentSessionRequest struct {
	Amount        float64
	Currency      string
	ProductName   string
	Description   string
	ImageURL      string
	CustomerEmail string
	Reference     domain.CheckoutReference
}

// PaymentSession is the provider's handle for a created session.
type PaymentSession struct {
	ID          string
	RedirectURL string
}

// PaymentProvider creates hosted checkout sessions. Implementations must not
// retry on their own.
type PaymentProvider interface {
	CreateSession(ctx context.Context, req PaymentSessionRequest) (*PaymentSession, error)
}

// CheckoutService starts a payment for booking a doctor.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, principal domain.Principal, doctorID string) (*domain.CheckoutSession, error)
}
