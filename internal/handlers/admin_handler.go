package handlers

import (
	"log"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AdminHandler handles moderation and account administration
type AdminHandler struct {
	profileRepository repositories.ProfileRepository
	firebaseAuth      *auth.Client
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(profileRepo repositories.ProfileRepository, firebaseAuthClient *auth.Client) *AdminHandler {
	return &AdminHandler{
		profileRepository: profileRepo,
		firebaseAuth:      firebaseAuthClient,
	}
}

// RegisterAdminRoutes registers admin-only routes; the group must carry
// the admin guard.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/profiles", h.ListProfiles)
	g.PUT("/profiles/:uid/role", h.SetRole)
	g.PUT("/profiles/:uid/disabled", h.SetDisabled)
	g.PUT("/profiles/:uid/reset-ratings", h.ResetRatings)
	g.DELETE("/profiles/:uid", h.DeleteProfile)
}

// RegisterDeleteUserRoute registers the account-deletion side-effect
// endpoint at its legacy top-level path.
func (h *AdminHandler) RegisterDeleteUserRoute(e *echo.Echo) {
	e.DELETE("/deleteUser/:uid", h.DeleteUser)
}

// ListProfiles returns every profile, including disabled ones
func (h *AdminHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.profileRepository.GetProfiles()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, profiles)
}

// SetRole changes a user's role
func (h *AdminHandler) SetRole(c echo.Context) error {
	var req models.SetRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.profileRepository.SetRole(c.Param("uid"), req.Role); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// SetDisabled flips a user's disabled flag
func (h *AdminHandler) SetDisabled(c echo.Context) error {
	var req models.SetDisabledRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.profileRepository.SetDisabled(c.Param("uid"), req.Disabled); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetRatings zeroes a user's rating aggregate
func (h *AdminHandler) ResetRatings(c echo.Context) error {
	if err := h.profileRepository.ResetRating(c.Param("uid")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteProfile hard-deletes a profile record, explicit admin action only
func (h *AdminHandler) DeleteProfile(c echo.Context) error {
	if err := h.profileRepository.DeleteProfile(c.Param("uid")); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes the identity record from Firebase. The Profile row is
// intentionally left in place for manual cleanup; the orphan is logged.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	uid := c.Param("uid")

	if err := h.firebaseAuth.DeleteUser(c.Request().Context(), uid); err != nil {
		log.Printf("failed to delete firebase user %s: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete user"})
	}

	log.Printf("deleted firebase user %s; profile row left for manual cleanup", uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
