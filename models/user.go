// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is anchored by its canonical E.164 phone number; one row per number.
// Rows are created on the first successful OTP verification and never deleted
// by the auth flow.
type User struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	IsVerified  bool      `json:"isVerified"`
	FirstName   *string   `json:"firstName,omitempty"`
	LastName    *string   `json:"lastName,omitempty"`
	Email       *string   `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProfileUpdateRequest is a patch: a nil field means "leave unchanged", a
// non-nil field (even pointing at "") means "set to this value".
type ProfileUpdateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" validate:"omitempty,email"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r ProfileUpdateRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil
}

// UserListQuery captures the dashboard listing filters.
type UserListQuery struct {
	Verified *bool
	Limit    int
	Offset   int
}
