// repositories/otp_repository.go
package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinvite/clinvite_backend/models"
)

// OTPRepository persists one-time codes. The issuance and consumption paths
// are the two spots where concurrent requests for the same phone number can
// race, so both are pushed down to the storage layer: Replace runs in a
// transaction and Consume is a single conditional update.
type OTPRepository interface {
	// Replace deletes every unused code for the phone number and inserts a
	// fresh one, atomically.
	Replace(ctx context.Context, phone, code string, expiresAt time.Time) error

	// Consume marks the newest matching unused, unexpired code as used and
	// reports whether exactly one row was claimed. Two concurrent calls with
	// the same code cannot both get true.
	Consume(ctx context.Context, phone, code string, now time.Time) (bool, error)

	// DeleteExpiredAndUsed garbage-collects rows that can never verify again.
	DeleteExpiredAndUsed(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db DB
}

func NewOTPRepository(db DB) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Replace(ctx context.Context, phone, code string, expiresAt time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM otp_codes WHERE phone_number = $1 AND NOT is_used`, phone); err != nil {
		return err
	}

	row := models.OTPCode{
		ID:          uuid.New(),
		PhoneNumber: phone,
		Code:        code,
		ExpiresAt:   expiresAt,
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO otp_codes (id, phone_number, code, expires_at) VALUES ($1, $2, $3, $4)`,
		row.ID, row.PhoneNumber, row.Code, row.ExpiresAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *otpRepository) Consume(ctx context.Context, phone, code string, now time.Time) (bool, error) {
	// The inner select tie-breaks on the newest row; the outer NOT is_used
	// guard makes the claim atomic with respect to concurrent consumers.
	q := `
		UPDATE otp_codes SET is_used = TRUE
		WHERE id = (
			SELECT id FROM otp_codes
			WHERE phone_number = $1 AND code = $2 AND NOT is_used AND expires_at > $3
			ORDER BY created_at DESC
			LIMIT 1
		) AND NOT is_used
	`
	tag, err := r.db.Exec(ctx, q, phone, code, now)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *otpRepository) DeleteExpiredAndUsed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM otp_codes WHERE expires_at < $1 OR is_used`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
