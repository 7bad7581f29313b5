package handlers

import (
	"net/http"

	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProfileHandler handles HTTP requests related to profiles
type ProfileHandler struct {
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileRepo repositories.ProfileRepository, notifRepo repositories.NotificationRepository) *ProfileHandler {
	return &ProfileHandler{
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterProfileRoutes registers profile-related routes
func (h *ProfileHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profiles/me", h.GetOwnProfile)
	g.GET("/profiles/:uid", h.GetProfile)
	g.PUT("/profiles/me", h.UpdateOwnProfile)
	g.POST("/profiles/:uid/ratings", h.RateUser)
	g.GET("/profiles/search", h.SearchProfiles)
}

// profileResponse attaches the derived average rating
type profileResponse struct {
	*models.Profile
	AverageRating *float64 `json:"average_rating,omitempty"`
}

func toProfileResponse(p *models.Profile) profileResponse {
	resp := profileResponse{Profile: p}
	if avg, ok := p.AverageRating(); ok {
		resp.AverageRating = &avg
	}
	return resp
}

// GetOwnProfile returns the authenticated user's profile
func (h *ProfileHandler) GetOwnProfile(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	profile, err := h.profileRepository.GetProfileByUID(session.UID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// GetProfile returns a profile by Firebase UID
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	profile, err := h.profileRepository.GetProfileByUID(c.Param("uid"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// UpdateOwnProfile updates the authenticated user's own profile fields
func (h *ProfileHandler) UpdateOwnProfile(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.profileRepository.GetProfileByUID(session.UID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if req.Username != "" {
		profile.Username = req.Username
	}
	if req.ProfilePhotoURL != "" {
		profile.ProfilePhotoURL = req.ProfilePhotoURL
	}
	if req.Description != "" {
		profile.Description = req.Description
	}

	if err := h.profileRepository.UpdateProfile(profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// RateUser adds a rating to another user's aggregate and notifies them
func (h *ProfileHandler) RateUser(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	targetUID := c.Param("uid")

	if targetUID == session.UID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot rate yourself")
	}

	var req models.RateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.profileRepository.GetProfileByUID(targetUID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Profile not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.profileRepository.AddRating(targetUID, req.Rating); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notifySessionUser(c, h.notificationRepository, h.profileRepository, &models.Notification{
		RecipientUID: targetUID,
		Type:         models.NotificationRating,
		Rating:       req.Rating,
	})

	profile, err := h.profileRepository.GetProfileByUID(targetUID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// SearchProfiles searches profiles by username substring
func (h *ProfileHandler) SearchProfiles(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	profiles, err := h.profileRepository.SearchProfiles(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	compact := make([]models.ProfileCompact, len(profiles))
	for i := range profiles {
		compact[i] = profiles[i].ToCompact()
	}
	return c.JSON(http.StatusOK, compact)
}
