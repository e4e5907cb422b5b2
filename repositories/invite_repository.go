// repositories/invite_repository.go
package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinvite/clinvite_backend/models"
)

// InviteRepository persists wallet invites sent from the dashboard.
type InviteRepository interface {
	Create(ctx context.Context, invite *models.WalletInvite) error
	List(ctx context.Context, limit, offset int) ([]models.WalletInvite, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, sentAt *time.Time, now time.Time) error
}

type inviteRepository struct {
	db DB
}

func NewInviteRepository(db DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) Create(ctx context.Context, inv *models.WalletInvite) error {
	q := `
		INSERT INTO wallet_invites
			(id, phone_number, trial_id, locale_id, status, invited_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := r.db.Exec(ctx, q,
		inv.ID, inv.PhoneNumber, inv.TrialID, inv.LocaleID, inv.Status, inv.InvitedBy, inv.CreatedAt)
	return err
}

func (r *inviteRepository) List(ctx context.Context, limit, offset int) ([]models.WalletInvite, error) {
	q := `
		SELECT id, phone_number, trial_id, locale_id, status, invited_by, sent_at, created_at, updated_at
		FROM wallet_invites
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []models.WalletInvite
	for rows.Next() {
		var inv models.WalletInvite
		if err := rows.Scan(&inv.ID, &inv.PhoneNumber, &inv.TrialID, &inv.LocaleID,
			&inv.Status, &inv.InvitedBy, &inv.SentAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *inviteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, sentAt *time.Time, now time.Time) error {
	q := `UPDATE wallet_invites SET status = $2, sent_at = $3, updated_at = $4 WHERE id = $1`
	_, err := r.db.Exec(ctx, q, id, status, sentAt, now)
	return err
}
