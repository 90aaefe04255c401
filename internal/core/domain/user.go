package domain

import "time"

// User is the stored record behind a principal. PasswordHash never leaves
// the service boundary.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Photo        string    `json:"photo,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	BloodType    string    `json:"blood_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal returns the identity attributes carried in tokens.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

// UserUpdate lists the profile fields a user may change. Nil fields are left
// untouched.
type UserUpdate struct {
	Name      *string
	Email     *string
	Photo     *string
	Gender    *string
	BloodType *string
}
