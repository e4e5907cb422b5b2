// services/auth_service.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/clinvite/clinvite_backend/models"
	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/utils"
)

// JwtCustomClaims for the signed credential
type JwtCustomClaims struct {
	UserID      string `json:"userId"`
	PhoneNumber string `json:"phoneNumber"`
	jwt.StandardClaims
}

// AuthService issues signed tokens and manages the session rows backing
// them. A token is only usable while its session row exists: deleting the
// row revokes access even though the token stays cryptographically valid
// until its embedded expiry.
type AuthService struct {
	sessions repositories.SessionRepository
	users    repositories.UserRepository
	clock    utils.Clock
	secret   []byte
	expiry   time.Duration
}

func NewAuthService(sessions repositories.SessionRepository, users repositories.UserRepository, clock utils.Clock, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		sessions: sessions,
		users:    users,
		clock:    clock,
		secret:   []byte(secret),
		expiry:   expiry,
	}
}

// GenerateToken produces an HS256-signed credential embedding the user
// identity and an expiry of issuance plus the configured window.
func (s *AuthService) GenerateToken(userID uuid.UUID, phone string) (string, error) {
	now := s.clock.Now()
	claims := &JwtCustomClaims{
		UserID:      userID.String(),
		PhoneNumber: phone,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.expiry).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// CreateSession persists the session row for a freshly issued token. The
// expiry matches the token's embedded one and is never extended afterwards.
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID, token string) (*models.Session, error) {
	now := s.clock.Now()
	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ParseToken checks signature and structure only; expiry is checked against
// the service clock by the caller. This is validation layer (a).
func (s *AuthService) ParseToken(tokenString string) (*JwtCustomClaims, error) {
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(tokenString, &JwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JwtCustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession runs both validation layers: (a) the token must be
// well-signed and unexpired, (b) a matching unexpired session row must
// exist. An expired row is deleted on sight. Expected failures return
// (nil, nil); only storage faults surface as errors.
func (s *AuthService) ValidateSession(ctx context.Context, tokenString string) (*models.SessionUser, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, nil
	}

	now := s.clock.Now()
	if claims.ExpiresAt > 0 && now.Unix() > claims.ExpiresAt {
		return nil, nil
	}

	session, err := s.sessions.GetByToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if now.After(session.ExpiresAt) {
		// Lazy cleanup: the row can never validate again.
		if err := s.sessions.DeleteByToken(ctx, tokenString); err != nil {
			return nil, err
		}
		return nil, nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	return &models.SessionUser{
		UserID:      userID,
		PhoneNumber: claims.PhoneNumber,
		User:        user,
	}, nil
}

// DeleteSession revokes the session backing the token. Logout.
func (s *AuthService) DeleteSession(ctx context.Context, tokenString string) error {
	return s.sessions.DeleteByToken(ctx, tokenString)
}
