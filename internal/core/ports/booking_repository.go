package ports

import (
	"context"

	"github.com/medicare/booking-api/internal/core/domain"
)

// BookingRepository reads the bookings recorded for a patient, newest first.
type BookingRepository interface {
	ListByPatient(ctx context.Context, patientID string) ([]*domain.Booking, error)
}
