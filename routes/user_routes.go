package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/controllers"
	"github.com/clinvite/clinvite_backend/middleware"
	"github.com/clinvite/clinvite_backend/services"
)

// RegisterUserRoutes sets up the dashboard user listing routes. All of them
// require a live session.
func RegisterUserRoutes(e *echo.Echo, authService *services.AuthService, userController *controllers.UserController) {
	users := e.Group("/api/users")
	users.Use(middleware.SessionMiddleware(authService))
	users.GET("", userController.ListUsers)
	users.GET("/:id", userController.GetUser)
}
