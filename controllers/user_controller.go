package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/models"
	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/utils"
)

// UserController serves the dashboard's user listing.
type UserController struct {
	users repositories.UserRepository
}

func NewUserController(users repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// ListUsers returns a page of users, optionally filtered by verification
// state (?verified=true|false).
func (uc *UserController) ListUsers(c echo.Context) error {
	q := models.UserListQuery{Limit: 50}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			q.Limit = limit
		}
	}
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			q.Offset = offset
		}
	}
	if verifiedStr := c.QueryParam("verified"); verifiedStr != "" {
		verified := verifiedStr == "true"
		q.Verified = &verified
	}

	users, err := uc.users.List(c.Request().Context(), q)
	if err != nil {
		utils.Logger.WithError(err).Error("User listing failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if users == nil {
		users = []models.User{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

// GetUser returns a single user by ID.
func (uc *UserController) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}

	user, err := uc.users.GetByID(c.Request().Context(), id)
	if err != nil {
		utils.Logger.WithError(err).Error("User lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"user": user})
}
