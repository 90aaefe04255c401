// Package payment adapts hosted checkout providers to ports.PaymentProvider.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/medicare/booking-api/internal/core/ports"
)

// maxAmount is Stripe's per-charge ceiling (99,999,999 minor units).
const maxAmount = 999_999.99

// StripeConfig holds the Stripe Checkout settings. CancelURL may contain the
// placeholder {doctor_id}.
type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	// HTTPTimeout caps a single HTTP exchange; the caller's context usually
	// expires first.
	HTTPTimeout time.Duration
	// BackendURL overrides the API endpoint. Empty means api.stripe.com.
	BackendURL string
}

// StripeProvider creates Stripe Checkout Sessions in payment mode.
type StripeProvider struct {
	api        *client.API
	successURL string
	cancelURL  string
}

// NewStripeProvider builds a client with automatic network retries disabled:
// a failed session creation is reported to the caller, never replayed.
func NewStripeProvider(cfg StripeConfig, log zerolog.Logger) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key must be provided")
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return nil, errors.New("stripe: success and cancel URLs must be provided")
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     zerologAdapter{log: log.With().Str("component", "stripe").Logger()},
		EnableTelemetry:   stripe.Bool(false),
	}
	if cfg.BackendURL != "" {
		backendCfg.URL = stripe.String(cfg.BackendURL)
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}

	return &StripeProvider{
		api:        client.New(cfg.SecretKey, backends),
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}, nil
}

// CreateSession creates a single-line-item checkout for the booking. The
// amount is converted from major to minor currency units.
func (p *StripeProvider) CreateSession(ctx context.Context, req ports.PaymentSessionRequest) (*ports.PaymentSession, error) {
	if !(req.Amount > 0 && req.Amount <= maxAmount) {
		return nil, fmt.Errorf("stripe: amount %v out of range", req.Amount)
	}
	unitAmount := int64(math.Round(req.Amount * 100))
	if unitAmount <= 0 {
		return nil, fmt.Errorf("stripe: amount %.2f rounds to zero", req.Amount)
	}

	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.ProductName),
	}
	if req.Description != "" {
		product.Description = stripe.String(req.Description)
	}
	if req.ImageURL != "" {
		product.Images = stripe.StringSlice([]string{req.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(p.successURL),
		CancelURL:          stripe.String(strings.ReplaceAll(p.cancelURL, "{doctor_id}", req.Reference.DoctorID)),
		ClientReferenceID:  stripe.String(req.Reference.DoctorID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(req.Currency),
				UnitAmount:  stripe.Int64(unitAmount),
				ProductData: product,
			},
			Quantity: stripe.Int64(1),
		}},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("attempt_id", req.Reference.AttemptID)
	params.AddMetadata("principal_id", req.Reference.PrincipalID)
	params.AddMetadata("doctor_id", req.Reference.DoctorID)

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("stripe: %s (status %d, code %s)", serr.Msg, serr.HTTPStatusCode, serr.Code)
		}
		return nil, fmt.Errorf("stripe: %w", err)
	}

	return &ports.PaymentSession{ID: s.ID, RedirectURL: s.URL}, nil
}

// zerologAdapter routes the Stripe client's own logging into zerolog.
type zerologAdapter struct {
	log zerolog.Logger
}

func (a zerologAdapter) Debugf(format string, v ...interface{}) { a.log.Debug().Msgf(format, v...) }
func (a zerologAdapter) Infof(format string, v ...interface{})  { a.log.Debug().Msgf(format, v...) }
func (a zerologAdapter) Warnf(format string, v ...interface{})  { a.log.Warn().Msgf(format, v...) }
func (a zerologAdapter) Errorf(format string, v ...interface{}) { a.log.Error().Msgf(format, v...) }
