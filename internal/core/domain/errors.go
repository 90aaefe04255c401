package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these so
// the transport layer can map it to a status code with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("access forbidden")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrProviderError = errors.New("payment provider error")
)

var (
	ErrUserExists     = fmt.Errorf("%w: user already exists", ErrConflict)
	ErrUserNotFound   = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrMissingFields  = fmt.Errorf("%w: username, password and email are required", ErrInvalidInput)
	ErrInvalidRole    = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrRoleNotAllowed = fmt.Errorf("%w: role cannot be self-assigned", ErrInvalidInput)

	ErrDoctorNotFound    = fmt.Errorf("%w: doctor not found", ErrNotFound)
	ErrDoctorNotBookable = fmt.Errorf("%w: doctor is not accepting bookings", ErrInvalidState)
	ErrInvalidPrice      = fmt.Errorf("%w: doctor has no valid ticket price", ErrInvalidInput)
	ErrInvalidApproval   = fmt.Errorf("%w: unknown approval status", ErrInvalidInput)

	ErrInvalidRating = fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	ErrEmptyReview   = fmt.Errorf("%w: review text is required", ErrInvalidInput)
)
