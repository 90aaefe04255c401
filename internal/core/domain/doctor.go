package domain

import (
	"math"
	"time"
)

// ApprovalStatus is the admin review state of a doctor profile.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalCancelled ApprovalStatus = "cancelled"
)

// ParseApproval validates a raw approval status.
func ParseApproval(s string) (ApprovalStatus, error) {
	switch a := ApprovalStatus(s); a {
	case ApprovalPending, ApprovalApproved, ApprovalCancelled:
		return a, nil
	}
	return "", ErrInvalidApproval
}

// MaxTicketPrice is the largest price a doctor may charge, in major units.
// It keeps the minor-unit amount within what payment providers accept
// (99,999,999 cents).
const MaxTicketPrice = 999_999.99

// ValidTicketPrice reports whether p is a finite price in [0, MaxTicketPrice].
func ValidTicketPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0 && p <= MaxTicketPrice
}

// TimeSlot is a weekly availability window.
type TimeSlot struct {
	Day       string `json:"day" bson:"day"`
	StartTime string `json:"start_time" bson:"start_time"`
	EndTime   string `json:"end_time" bson:"end_time"`
}

// Doctor is a bookable resource. Its ID equals the owning user's ID.
type Doctor struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Photo          string         `json:"photo,omitempty"`
	Specialization string         `json:"specialization,omitempty"`
	Bio            string         `json:"bio,omitempty"`
	About          string         `json:"about,omitempty"`
	TicketPrice    float64        `json:"ticket_price"`
	TimeSlots      []TimeSlot     `json:"time_slots,omitempty"`
	Approval       ApprovalStatus `json:"approval"`
	FullyBooked    bool           `json:"fully_booked"`
	Deleted        bool           `json:"-"`
	AverageRating  float64        `json:"average_rating"`
	TotalRating    int            `json:"total_rating"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Bookable reports whether a checkout may be started for this doctor.
func (d *Doctor) Bookable() bool {
	return d.Approval == ApprovalApproved && !d.FullyBooked && !d.Deleted
}

// DoctorProfile carries the fields a doctor may set on their own profile.
// Nil fields are left untouched.
type DoctorProfile struct {
	Name           *string
	Email          *string
	Phone          *string
	Photo          *string
	Specialization *string
	Bio            *string
	About          *string
	TicketPrice    *float64
	FullyBooked    *bool
	TimeSlots      []TimeSlot
}
