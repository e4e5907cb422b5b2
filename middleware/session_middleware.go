// middleware/session_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/services"
)

// AuthTokenCookie is the HttpOnly cookie the login flow sets.
const AuthTokenCookie = "auth_token"

// Context keys populated after a successful validation.
const (
	ContextKeySession = "session"
	ContextKeyUserID  = "userId"
	ContextKeyPhone   = "phoneNumber"
	ContextKeyToken   = "token"
)

// SessionMiddleware authenticates requests with the two-layer check: the
// signed token must verify and be unexpired, and its session row must still
// exist in storage. A valid token whose row was deleted (logout) is rejected.
func SessionMiddleware(auth *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No authentication token")
			}

			sessionUser, err := auth.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to validate session")
			}
			if sessionUser == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired session")
			}

			c.Set(ContextKeySession, sessionUser)
			c.Set(ContextKeyUserID, sessionUser.UserID.String())
			c.Set(ContextKeyPhone, sessionUser.PhoneNumber)
			c.Set(ContextKeyToken, token)

			return next(c)
		}
	}
}

// extractToken reads the credential from the Authorization header, falling
// back to the auth cookie used by the web dashboard.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	cookie, err := c.Cookie(AuthTokenCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
