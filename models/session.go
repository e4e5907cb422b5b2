// models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session authorizes a signed token server-side. Deleting the row revokes
// access even while the token itself is still cryptographically valid.
// Expiry is fixed at creation and never extended.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionUser is the result of a successful two-layer validation: the
// identity claims from the token plus the resolved user row.
type SessionUser struct {
	UserID      uuid.UUID
	PhoneNumber string
	User        *User
}
