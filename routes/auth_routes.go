package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/controllers"
	"github.com/clinvite/clinvite_backend/middleware"
	"github.com/clinvite/clinvite_backend/services"
)

// RegisterAuthRoutes sets up the public authentication routes and the
// authenticated profile/session routes.
func RegisterAuthRoutes(e *echo.Echo, authService *services.AuthService, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/send-otp", authController.SendOTP)
	e.POST("/api/auth/verify-otp", authController.VerifyOTP)
	e.POST("/api/auth/logout", authController.Logout)

	// Routes requiring a live session
	authGroup := e.Group("/api/auth")
	authGroup.Use(middleware.SessionMiddleware(authService))
	authGroup.GET("/me", authController.Me)
	authGroup.PATCH("/profile", authController.UpdateProfile)

	maintenance := e.Group("/api/maintenance")
	maintenance.Use(middleware.SessionMiddleware(authService))
	maintenance.POST("/otp-cleanup", authController.CleanupOTPs)
}
