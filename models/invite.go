// models/invite.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet invite delivery states.
const (
	InviteStatusPending = "pending"
	InviteStatusSent    = "sent"
	InviteStatusFailed  = "failed"
)

// WalletInvite is a voucher/copay-card invitation sent to a mobile number
// for a clinical trial.
type WalletInvite struct {
	ID          uuid.UUID  `json:"id"`
	PhoneNumber string     `json:"phoneNumber"`
	TrialID     *int       `json:"trialId,omitempty"`
	LocaleID    *int       `json:"localeId,omitempty"`
	Status      string     `json:"status"`
	InvitedBy   *uuid.UUID `json:"invitedBy,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateInviteRequest is the dashboard "send invite" payload.
type CreateInviteRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	TrialID     *int   `json:"trialId"`
	LocaleID    *int   `json:"localeId"`
}

// ClinicalTrial is a dropdown lookup row.
type ClinicalTrial struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CountryLocale is a dropdown lookup row pairing a country with a language.
type CountryLocale struct {
	ID          int    `json:"id"`
	CountryName string `json:"countryName"`
	Language    string `json:"language"`
}
