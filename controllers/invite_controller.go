package controllers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinvite/clinvite_backend/config"
	"github.com/clinvite/clinvite_backend/middleware"
	"github.com/clinvite/clinvite_backend/models"
	"github.com/clinvite/clinvite_backend/repositories"
	"github.com/clinvite/clinvite_backend/services"
	"github.com/clinvite/clinvite_backend/utils"
)

// InviteController handles wallet invites and the dashboard lookups behind
// the invite form.
type InviteController struct {
	cfg     *config.Config
	invites *services.InviteService
	lookups repositories.LookupRepository
}

func NewInviteController(cfg *config.Config, invites *services.InviteService, lookups repositories.LookupRepository) *InviteController {
	return &InviteController{cfg: cfg, invites: invites, lookups: lookups}
}

// CreateInvite records a wallet invite for a mobile number and dispatches it
// over SMS. The invite is kept with status "failed" when delivery fails.
func (ic *InviteController) CreateInvite(c echo.Context) error {
	var req models.CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Phone number is required"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Phone number is required"})
	}

	phone, err := utils.NormalizePhoneNumber(req.PhoneNumber, ic.cfg.DefaultRegion)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid phone number format"})
	}

	var invitedBy *uuid.UUID
	if session, ok := c.Get(middleware.ContextKeySession).(*models.SessionUser); ok && session != nil {
		id := session.UserID
		invitedBy = &id
	}

	invite, err := ic.invites.Create(c.Request().Context(), phone, req, invitedBy)
	if err != nil {
		utils.Logger.WithError(err).Error("Invite creation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Invite created",
		"invite":  invite,
	})
}

// ListInvites returns a page of invites for the dashboard table.
func (ic *InviteController) ListInvites(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	invites, err := ic.invites.List(c.Request().Context(), limit, offset)
	if err != nil {
		utils.Logger.WithError(err).Error("Invite listing failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if invites == nil {
		invites = []models.WalletInvite{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"invites": invites})
}

// ListClinicalTrials serves the trial dropdown.
func (ic *InviteController) ListClinicalTrials(c echo.Context) error {
	trials, err := ic.lookups.ListClinicalTrials(c.Request().Context())
	if err != nil {
		utils.Logger.WithError(err).Error("Clinical trial lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if trials == nil {
		trials = []models.ClinicalTrial{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"clinicalTrials": trials})
}

// ListCountryLocales serves the country/language dropdown.
func (ic *InviteController) ListCountryLocales(c echo.Context) error {
	locales, err := ic.lookups.ListCountryLocales(c.Request().Context())
	if err != nil {
		utils.Logger.WithError(err).Error("Country locale lookup failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if locales == nil {
		locales = []models.CountryLocale{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"countryLocales": locales})
}
