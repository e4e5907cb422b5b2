package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/controllers"
	"github.com/clinvite/clinvite_backend/middleware"
	"github.com/clinvite/clinvite_backend/services"
)

// RegisterInviteRoutes sets up the wallet invite and lookup routes used by
// the dashboard's invite form.
func RegisterInviteRoutes(e *echo.Echo, authService *services.AuthService, inviteController *controllers.InviteController) {
	invites := e.Group("/api/wallet-invites")
	invites.Use(middleware.SessionMiddleware(authService))
	invites.POST("", inviteController.CreateInvite)
	invites.GET("", inviteController.ListInvites)

	lookups := e.Group("/api/lookups")
	lookups.Use(middleware.SessionMiddleware(authService))
	lookups.GET("/clinical-trials", inviteController.ListClinicalTrials)
	lookups.GET("/country-locales", inviteController.ListCountryLocales)
}
