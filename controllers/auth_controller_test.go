package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinvite/clinvite_backend/config"
	"github.com/clinvite/clinvite_backend/controllers"
	"github.com/clinvite/clinvite_backend/models"
	"github.com/clinvite/clinvite_backend/routes"
	"github.com/clinvite/clinvite_backend/services"
	"github.com/clinvite/clinvite_backend/utils"
)

// In-memory repositories backing the handler tests.

type memOTPRepo struct {
	rows []memOTPRow
}

type memOTPRow struct {
	phone     string
	code      string
	expiresAt time.Time
	used      bool
}

func (r *memOTPRepo) Replace(ctx context.Context, phone, code string, expiresAt time.Time) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.phone == phone && !row.used {
			continue
		}
		kept = append(kept, row)
	}
	r.rows = append(kept, memOTPRow{phone: phone, code: code, expiresAt: expiresAt})
	return nil
}

func (r *memOTPRepo) Consume(ctx context.Context, phone, code string, now time.Time) (bool, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		row := &r.rows[i]
		if row.phone == phone && row.code == code && !row.used && row.expiresAt.After(now) {
			row.used = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memOTPRepo) DeleteExpiredAndUsed(ctx context.Context, now time.Time) (int64, error) {
	var removed int64
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.used || row.expiresAt.Before(now) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return removed, nil
}

type memSessionRepo struct {
	sessions map[string]*models.Session
}

func (r *memSessionRepo) Create(ctx context.Context, s *models.Session) error {
	cp := *s
	r.sessions[s.Token] = &cp
	return nil
}

func (r *memSessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(r.sessions, token)
	return nil
}

type memUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByPhoneNumber(ctx context.Context, phone string) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpsertVerified(ctx context.Context, phone string, now time.Time) (*models.User, error) {
	for _, u := range r.users {
		if u.PhoneNumber == phone {
			u.IsVerified = true
			u.UpdatedAt = now
			cp := *u
			return &cp, nil
		}
	}
	u := &models.User{ID: uuid.New(), PhoneNumber: phone, IsVerified: true, CreatedAt: now, UpdatedAt: now}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, patch models.ProfileUpdateRequest, now time.Time) (*models.User, error) {
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

func (r *memUserRepo) List(ctx context.Context, q models.UserListQuery) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if q.Verified != nil && u.IsVerified != *q.Verified {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

// captureDelivery records outgoing messages instead of hitting a carrier.
type captureDelivery struct {
	to       []string
	messages []string
}

func (d *captureDelivery) Send(ctx context.Context, phone, message string) error {
	d.to = append(d.to, phone)
	d.messages = append(d.messages, message)
	return nil
}

type testValidator struct {
	validator *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.validator.Struct(i)
}

func newTestServer(t *testing.T) (*echo.Echo, *captureDelivery, *memUserRepo) {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:     "handler-test-secret",
		SessionExpiry: config.DefaultSessionExpiry,
		DefaultRegion: "IN",
		OTPExpiry:     config.DefaultOTPExpiry,
		OTPCodeLength: config.DefaultOTPCodeLength,
		OTPStaticCode: true,
	}

	userRepo := &memUserRepo{users: map[uuid.UUID]*models.User{}}
	otpRepo := &memOTPRepo{}
	sessionRepo := &memSessionRepo{sessions: map[string]*models.Session{}}
	delivery := &captureDelivery{}
	clock := utils.RealClock{}

	otpService := services.NewOTPService(otpRepo, clock, services.OTPOptions{
		CodeLength: cfg.OTPCodeLength,
		Expiry:     cfg.OTPExpiry,
		StaticCode: cfg.OTPStaticCode,
	})
	authService := services.NewAuthService(sessionRepo, userRepo, clock, cfg.JWTSecret, cfg.SessionExpiry)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	authController := controllers.NewAuthController(cfg, userRepo, otpService, authService, delivery, nil, clock)
	userController := controllers.NewUserController(userRepo)
	routes.RegisterAuthRoutes(e, authService, authController)
	routes.RegisterUserRoutes(e, authService, userController)

	return e, delivery, userRepo
}

func doJSON(e *echo.Echo, method, path, body string, authCookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authCookie != nil {
		req.AddCookie(authCookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func authCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "auth_token" {
			return c
		}
	}
	t.Fatal("auth_token cookie not set")
	return nil
}

func TestAuthFlow_EndToEnd(t *testing.T) {
	e, delivery, _ := newTestServer(t)

	// Request a code for a nationally formatted number.
	rec := doJSON(e, http.MethodPost, "/api/auth/send-otp", `{"phoneNumber":"98765 43210"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sendResp models.SendOTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sendResp))
	assert.Equal(t, "+919876543210", sendResp.PhoneNumber)

	require.Len(t, delivery.to, 1)
	assert.Equal(t, "+919876543210", delivery.to[0])
	assert.Contains(t, delivery.messages[0], services.StaticOTPCode)

	// Wrong code is rejected with the uniform error.
	rec = doJSON(e, http.MethodPost, "/api/auth/verify-otp",
		`{"phoneNumber":"+919876543210","otp":"000000"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired OTP")

	// Right code logs in, any formatting of the same number.
	rec = doJSON(e, http.MethodPost, "/api/auth/verify-otp",
		`{"phoneNumber":"+91 98765 43210","otp":"123456"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var authResp models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &authResp))
	require.NotNil(t, authResp.User)
	assert.Equal(t, "+919876543210", authResp.User.PhoneNumber)
	assert.True(t, authResp.User.IsVerified)

	cookie := authCookieFrom(t, rec)
	assert.True(t, cookie.HttpOnly)

	// The code is single-use.
	rec = doJSON(e, http.MethodPost, "/api/auth/verify-otp",
		`{"phoneNumber":"+919876543210","otp":"123456"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Cookie authenticates /me.
	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "+919876543210")

	// Partial profile update: only the submitted field changes.
	rec = doJSON(e, http.MethodPatch, "/api/auth/profile", `{"firstName":"Asha"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"firstName":"Asha"`)

	// Logout revokes the session; the same cookie stops working.
	rec = doJSON(e, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/auth/me", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendOTP_RejectsInvalidInput(t *testing.T) {
	e, delivery, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing phone", `{}`},
		{"empty phone", `{"phoneNumber":""}`},
		{"garbage phone", `{"phoneNumber":"not a number"}`},
		{"too short", `{"phoneNumber":"12345"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/api/auth/send-otp", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, delivery.to, "nothing should be dispatched for rejected input")
}

func TestVerifyOTP_RejectsMalformedCode(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/auth/send-otp", `{"phoneNumber":"+919876543210"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, body := range []string{
		`{"phoneNumber":"+919876543210","otp":"12345"}`,
		`{"phoneNumber":"+919876543210","otp":"12345a"}`,
		`{"phoneNumber":"+919876543210"}`,
	} {
		rec := doJSON(e, http.MethodPost, "/api/auth/verify-otp", body, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	e, _, _ := newTestServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPatch, "/api/auth/profile"},
		{http.MethodGet, "/api/users"},
	} {
		rec := doJSON(e, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)

		rec = doJSON(e, route.method, route.path, "",
			&http.Cookie{Name: "auth_token", Value: "forged-token"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s with forged token", route.method, route.path)
	}
}

func TestListUsers_FiltersAndPages(t *testing.T) {
	e, _, userRepo := newTestServer(t)

	// Log in to obtain a session cookie.
	rec := doJSON(e, http.MethodPost, "/api/auth/send-otp", `{"phoneNumber":"+919876543210"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/auth/verify-otp",
		`{"phoneNumber":"+919876543210","otp":"123456"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := authCookieFrom(t, rec)

	_, err := userRepo.UpsertVerified(context.Background(), "+916502530000", time.Now())
	require.NoError(t, err)

	rec = doJSON(e, http.MethodGet, "/api/users", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Users []models.User `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
}
