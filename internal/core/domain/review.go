package domain

import "time"

// Review is a patient's rating of a doctor.
type Review struct {
	ID         string    `json:"id"`
	DoctorID   string    `json:"doctor_id"`
	UserID     string    `json:"user_id"`
	ReviewText string    `json:"review_text"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary is the aggregate of all reviews for one doctor.
type RatingSummary struct {
	Average float64
	Count   int
}
