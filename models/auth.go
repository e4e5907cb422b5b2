// models/auth.go

package models

// SendOTPRequest starts the login flow.
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

// VerifyOTPRequest completes the login flow.
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
}

// SendOTPResponse echoes the canonical number the code was sent to.
type SendOTPResponse struct {
	Message     string `json:"message"`
	PhoneNumber string `json:"phoneNumber"`
}

// AuthResponse is returned after a successful verification.
type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
