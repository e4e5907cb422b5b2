// repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/clinvite/clinvite_backend/models"
)

// UserRepository manages user rows keyed by canonical phone number.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error)

	// UpsertVerified creates the user for a previously-unseen phone number,
	// or marks an existing one verified. Runs as a single statement so two
	// concurrent verifications for the same number cannot both insert.
	UpsertVerified(ctx context.Context, phone string, now time.Time) (*models.User, error)

	// UpdateProfile applies a partial update; nil patch fields are left
	// untouched.
	UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfileUpdateRequest, now time.Time) (*models.User, error)

	List(ctx context.Context, q models.UserListQuery) ([]models.User, error)
}

type userRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, phone_number, is_verified, first_name, last_name, email, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.PhoneNumber,
		&u.IsVerified,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *userRepository) GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	return scanUser(r.db.QueryRow(ctx, q, phone))
}

func (r *userRepository) UpsertVerified(ctx context.Context, phone string, now time.Time) (*models.User, error) {
	q := `
		INSERT INTO users (id, phone_number, is_verified, created_at, updated_at)
		VALUES ($1, $2, TRUE, $3, $3)
		ON CONFLICT (phone_number)
		DO UPDATE SET is_verified = TRUE, updated_at = $3
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, q, uuid.New(), phone, now))
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfileUpdateRequest, now time.Time) (*models.User, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1

	if patch.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", i))
		args = append(args, *patch.FirstName)
		i++
	}
	if patch.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", i))
		args = append(args, *patch.LastName)
		i++
	}
	if patch.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", i))
		args = append(args, *patch.Email)
		i++
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, now)
	i++
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), i, userColumns)
	return scanUser(r.db.QueryRow(ctx, q, args...))
}

func (r *userRepository) List(ctx context.Context, listQ models.UserListQuery) ([]models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if listQ.Verified != nil {
		q += ` WHERE is_verified = $1`
		args = append(args, *listQ.Verified)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, listQ.Limit, listQ.Offset)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.PhoneNumber, &u.IsVerified, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
