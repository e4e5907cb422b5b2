// models/otp.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// OTPCode is a one-time code issued for a phone number. The phone number is
// not necessarily linked to an existing user yet.
type OTPCode struct {
	ID          uuid.UUID `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expiresAt"`
	IsUsed      bool      `json:"isUsed"`
	CreatedAt   time.Time `json:"createdAt"`
}
