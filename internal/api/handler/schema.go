package handler

import "github.com/medicare/booking-api/internal/core/domain"

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" example:"alice"`
	Password string `json:"password" validate:"required,max=72" example:"pw123"`
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Name     string `json:"name,omitempty" validate:"max=120" example:"Alice Liddell"`
	Role     string `json:"role,omitempty" example:"patient" enums:"patient,doctor"`
}

type loginRequest struct {
	// Username or, as a fallback, email.
	Username string `json:"username" validate:"required" example:"alice"`
	Password string `json:"password" validate:"required" example:"pw123"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Users ---

type updateUserRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Photo     *string `json:"photo,omitempty" validate:"omitempty,url"`
	Gender    *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	BloodType *string `json:"blood_type,omitempty" validate:"omitempty,max=3"`
}

func (r updateUserRequest) toDomain() domain.UserUpdate {
	return domain.UserUpdate{
		Name:      r.Name,
		Email:     r.Email,
		Photo:     r.Photo,
		Gender:    r.Gender,
		BloodType: r.BloodType,
	}
}

// --- Doctors ---

type timeSlotRequest struct {
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required" example:"09:00"`
	EndTime   string `json:"end_time" validate:"required" example:"12:00"`
}

type updateDoctorRequest struct {
	Name           *string           `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email          *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string           `json:"phone,omitempty" validate:"omitempty,max=32"`
	Photo          *string           `json:"photo,omitempty" validate:"omitempty,url"`
	Specialization *string           `json:"specialization,omitempty" validate:"omitempty,max=120"`
	Bio            *string           `json:"bio,omitempty" validate:"omitempty,max=500"`
	About          *string           `json:"about,omitempty" validate:"omitempty,max=5000"`
	TicketPrice    *float64          `json:"ticket_price,omitempty" validate:"omitempty,gte=0,lte=999999.99" example:"50"`
	FullyBooked    *bool             `json:"fully_booked,omitempty"`
	TimeSlots      []timeSlotRequest `json:"time_slots,omitempty" validate:"omitempty,dive"`
}

func (r updateDoctorRequest) toDomain() domain.DoctorProfile {
	p := domain.DoctorProfile{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Photo:          r.Photo,
		Specialization: r.Specialization,
		Bio:            r.Bio,
		About:          r.About,
		TicketPrice:    r.TicketPrice,
		FullyBooked:    r.FullyBooked,
	}
	if r.TimeSlots != nil {
		p.TimeSlots = make([]domain.TimeSlot, len(r.TimeSlots))
		for i, ts := range r.TimeSlots {
			p.TimeSlots[i] = domain.TimeSlot{Day: ts.Day, StartTime: ts.StartTime, EndTime: ts.EndTime}
		}
	}
	return p
}

type approvalRequest struct {
	Status string `json:"status" validate:"required" example:"approved" enums:"pending,approved,cancelled"`
}

// --- Reviews ---

type createReviewRequest struct {
	ReviewText string `json:"review_text" validate:"required,max=2000" example:"Very thorough."`
	Rating     int    `json:"rating" validate:"required,min=1,max=5" example:"5"`
}

// listResponse wraps collections so the envelope can grow without breaking
// clients.
type listResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items, Count: len(items)}
}

// ErrorResponse is the canonical error envelope for all API errors.
type ErrorResponse struct {
	Error string `json:"error" example:"unauthorized"`
}
