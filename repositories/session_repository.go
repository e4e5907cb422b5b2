// repositories/session_repository.go
package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"

	"github.com/clinvite/clinvite_backend/models"
)

// SessionRepository persists session rows. Sessions are looked up on every
// authenticated request; nothing is cached in process.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error

	// GetByToken returns nil when no session exists for the token.
	GetByToken(ctx context.Context, token string) (*models.Session, error)

	DeleteByToken(ctx context.Context, token string) error
}

type sessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *models.Session) error {
	q := `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, q, s.ID, s.UserID, s.Token, s.ExpiresAt, s.CreatedAt)
	return err
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	q := `SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token = $1`
	row := r.db.QueryRow(ctx, q, token)

	var s models.Session
	err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
