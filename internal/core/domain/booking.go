package domain

import "time"

// BookingStatus tracks a paid appointment after the provider confirms it.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed appointment. Bookings are written by the payment
// reconciliation path, never by the checkout orchestrator; this API only
// reads them.
type Booking struct {
	ID              string        `json:"id"`
	DoctorID        string        `json:"doctor_id"`
	PatientID       string        `json:"patient_id"`
	TicketPrice     float64       `json:"ticket_price"`
	AppointmentDate time.Time     `json:"appointment_date"`
	Status          BookingStatus `json:"status"`
	IsPaid          bool          `json:"is_paid"`
	CreatedAt       time.Time     `json:"created_at"`
}

// Appointment is a booking joined with the doctor it was made with. Doctor is
// nil when the profile no longer exists.
type Appointment struct {
	Booking
	Doctor *Doctor `json:"doctor,omitempty"`
}
