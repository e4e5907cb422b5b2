package controllers

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/config"
	"github.com/clinvite/clinvite_backend/middleware"
	"github.com/clinvite/clinvite_backend/models"
	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/services"
	"github.com/clinvite/clinvite_backend/utils"
)

// AuthController contains the phone/OTP authentication logic
type AuthController struct {
	cfg      *config.Config
	users    repositories.UserRepository
	otp      *services.OTPService
	auth     *services.AuthService
	delivery services.Delivery
	redis    *redis.Client
	clock    utils.Clock
}

// NewAuthController creates a new auth controller
func NewAuthController(cfg *config.Config, users repositories.UserRepository, otp *services.OTPService, auth *services.AuthService, delivery services.Delivery, redisClient *redis.Client, clock utils.Clock) *AuthController {
	return &AuthController{
		cfg:      cfg,
		users:    users,
		otp:      otp,
		auth:     auth,
		delivery: delivery,
		redis:    redisClient,
		clock:    clock,
	}
}

// SendOTP validates and canonicalizes the submitted phone number, issues a
// fresh code and dispatches it over SMS.
func (ac *AuthController) SendOTP(c echo.Context) error {
	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Phone number is required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Phone number is required"})
	}

	if !utils.IsValidPhoneNumber(req.PhoneNumber, ac.cfg.DefaultRegion) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid phone number format"})
	}

	phone, err := utils.NormalizePhoneNumber(req.PhoneNumber, ac.cfg.DefaultRegion)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unable to format phone number"})
	}

	if err := utils.ValidateOTPAttempts(phone, ac.redis); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many OTP requests, try again later"})
	}

	code, err := ac.otp.Issue(c.Request().Context(), phone)
	if err != nil {
		utils.Logger.WithError(err).Error("OTP issuance failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	// Delivery failure fails the whole issuance; one attempt, no retries.
	if err := ac.delivery.Send(c.Request().Context(), phone, services.OTPMessage(code)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send OTP"})
	}

	return c.JSON(http.StatusOK, models.SendOTPResponse{
		Message:     "OTP sent successfully",
		PhoneNumber: phone,
	})
}

// VerifyOTP consumes the submitted code and, on success, upserts the user,
// issues a signed token plus a session row and sets the auth cookie.
func (ac *AuthController) VerifyOTP(c echo.Context) error {
	var req models.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Phone number and OTP are required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Phone number and OTP are required"})
	}

	phone, err := utils.NormalizePhoneNumber(req.PhoneNumber, ac.cfg.DefaultRegion)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid phone number"})
	}

	ok, err := ac.otp.Verify(c.Request().Context(), phone, req.OTP)
	if err != nil {
		utils.Logger.WithError(err).Error("OTP verification failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if !ok {
		// Deliberately undifferentiated: wrong, expired and consumed codes
		// all look the same to the caller.
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid or expired OTP"})
	}

	user, err := ac.users.UpsertVerified(c.Request().Context(), phone, ac.clock.Now())
	if err != nil {
		utils.Logger.WithError(err).Error("User upsert failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	token, err := ac.auth.GenerateToken(user.ID, user.PhoneNumber)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if _, err := ac.auth.CreateSession(c.Request().Context(), user.ID, token); err != nil {
		utils.Logger.WithError(err).Error("Session creation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	ac.setAuthCookie(c, token, ac.cfg.SessionExpiry)

	return c.JSON(http.StatusOK, models.AuthResponse{
		Message: "Authentication successful",
		User:    user,
	})
}

// Me returns the authenticated user resolved by the session middleware.
func (ac *AuthController) Me(c echo.Context) error {
	session, ok := c.Get(middleware.ContextKeySession).(*models.SessionUser)
	if !ok || session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user": session.User})
}

// UpdateProfile applies a partial profile update. Absent fields are left
// untouched; present fields are set, even to the empty string.
func (ac *AuthController) UpdateProfile(c echo.Context) error {
	session, ok := c.Get(middleware.ContextKeySession).(*models.SessionUser)
	if !ok || session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
	}

	var patch models.ProfileUpdateRequest
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid email address"})
	}

	if patch.IsEmpty() {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "Profile updated successfully",
			"user":    session.User,
		})
	}

	user, err := ac.users.UpdateProfile(c.Request().Context(), session.UserID, patch, ac.clock.Now())
	if err != nil {
		utils.Logger.WithError(err).Error("Profile update failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// Logout deletes the session row so the still-signed token can no longer be
// used, then clears the cookie. Safe to call without a valid session.
func (ac *AuthController) Logout(c echo.Context) error {
	token := extractAuthToken(c)
	if token != "" {
		if err := ac.auth.DeleteSession(c.Request().Context(), token); err != nil {
			utils.Logger.WithError(err).Error("Session deletion failed")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	ac.setAuthCookie(c, "", -time.Hour)

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CleanupOTPs removes used and expired OTP rows. Explicit maintenance
// operation; nothing runs this on a schedule.
func (ac *AuthController) CleanupOTPs(c echo.Context) error {
	deleted, err := ac.otp.CleanupExpired(c.Request().Context())
	if err != nil {
		utils.Logger.WithError(err).Error("OTP cleanup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "OTP cleanup complete",
		"deleted": deleted,
	})
}

func (ac *AuthController) setAuthCookie(c echo.Context, token string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.AuthTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteStrictMode,
	}
	c.SetCookie(cookie)
}

func extractAuthToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	if cookie, err := c.Cookie(middleware.AuthTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
