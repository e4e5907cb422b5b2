package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvite/clinvite_backend/models"
)

type fakeSessionRepo struct {
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*models.Session{}}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *models.Session) error {
	cp := *s
	r.sessions[s.Token] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpsertVerified(ctx context.Context, phone string, now time.Time) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			u.IsVerified = true
			u.UpdatedAt = now
			cp := *u
			return &cp, nil
		}
	}
	u := &models.User{
		ID:          uuid.New(),
		PhoneNumber: phone,
		IsVerified:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfileUpdateRequest, now time.Time) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	if patch.FirstName != nil {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = patch.LastName
	}
	if patch.Email != nil {
		u.Email = patch.Email
	}
	u.UpdatedAt = now
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) List(ctx context.Context, q models.UserListQuery) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if q.Verified != nil && u.IsVerified != *q.Verified {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func newAuthServiceForTest() (*AuthService, *fakeSessionRepo, *fakeUserRepo, *fakeClock) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()
	clock := newFakeClock()
	svc := NewAuthService(sessions, users, clock, "test-secret", 7*24*time.Hour)
	return svc, sessions, users, clock
}

func loginTestUser(t *testing.T, svc *AuthService, users *fakeUserRepo, clock *fakeClock) (*models.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := users.UpsertVerified(ctx, "+919876543210", clock.Now())
	require.NoError(t, err)

	token, err := svc.GenerateToken(user.ID, user.PhoneNumber)
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx, user.ID, token)
	require.NoError(t, err)
	return user, token
}

func TestAuthService_ValidateSessionRoundTrip(t *testing.T) {
	svc, _, users, clock := newAuthServiceForTest()
	user, token := loginTestUser(t, svc, users, clock)

	session, err := svc.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, user.PhoneNumber, session.PhoneNumber)
	require.NotNil(t, session.User)
	assert.True(t, session.User.IsVerified)
}

func TestAuthService_DeleteSessionRevokesValidToken(t *testing.T) {
	svc, _, users, clock := newAuthServiceForTest()
	_, token := loginTestUser(t, svc, users, clock)
	ctx := context.Background()

	require.NoError(t, svc.DeleteSession(ctx, token))

	// The token itself still parses; revocation lives entirely in storage.
	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.UserID)

	session, err := svc.ValidateSession(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthService_ValidateSessionRejectsExpiredToken(t *testing.T) {
	svc, _, users, clock := newAuthServiceForTest()
	_, token := loginTestUser(t, svc, users, clock)

	clock.Advance(7*24*time.Hour + time.Second)

	session, err := svc.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthService_ExpiredSessionRowIsDeletedLazily(t *testing.T) {
	svc, sessions, users, clock := newAuthServiceForTest()
	_, token := loginTestUser(t, svc, users, clock)

	// Shrink the row's window so the row expires while the token itself
	// would still be within its embedded expiry.
	row := sessions.sessions[token]
	row.ExpiresAt = clock.Now().Add(time.Minute)
	clock.Advance(2 * time.Minute)

	session, err := svc.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NotContains(t, sessions.sessions, token, "expired row should be removed on sight")
}

func TestAuthService_ValidateSessionRejectsTamperedToken(t *testing.T) {
	svc, _, users, clock := newAuthServiceForTest()
	_, token := loginTestUser(t, svc, users, clock)

	tampered := token[:len(token)-2] + "xx"
	session, err := svc.ValidateSession(context.Background(), tampered)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthService_ValidateSessionRejectsForeignSecret(t *testing.T) {
	svc, sessions, users, clock := newAuthServiceForTest()
	user, _ := loginTestUser(t, svc, users, clock)

	other := NewAuthService(sessions, users, clock, "other-secret", 7*24*time.Hour)
	foreign, err := other.GenerateToken(user.ID, user.PhoneNumber)
	require.NoError(t, err)
	_, err = other.CreateSession(context.Background(), user.ID, foreign)
	require.NoError(t, err)

	session, err := svc.ValidateSession(context.Background(), foreign)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestAuthService_ValidateSessionRejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthServiceForTest()

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		session, err := svc.ValidateSession(context.Background(), tok)
		require.NoError(t, err)
		assert.Nil(t, session, "token %q should not validate", tok)
	}
}

func TestAuthService_ValidateSessionRejectsUnknownUser(t *testing.T) {
	svc, _, users, clock := newAuthServiceForTest()
	user, token := loginTestUser(t, svc, users, clock)

	delete(users.users, user.ID)

	session, err := svc.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, session)
}
