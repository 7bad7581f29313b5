package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AuthHandler handles the session exchange: a Firebase ID token in, a
// local session JWT out. All credential handling stays in Firebase.
type AuthHandler struct {
	profileRepository repositories.ProfileRepository
	firebaseAuth      *auth.Client
	jwtSecret         string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(profileRepo repositories.ProfileRepository, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		profileRepository: profileRepo,
		firebaseAuth:      firebaseAuthClient,
		jwtSecret:         jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/session", h.CreateSession)
}

// CreateSession verifies a Firebase ID token and issues a local JWT. A
// verified account without a matching profile gets one created from the
// token claims (logged as a warning, never fatal). Disabled profiles are
// refused.
func (h *AuthHandler) CreateSession(c echo.Context) error {
	var req models.SessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.firebaseAuth.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	profile, err := h.profileRepository.GetProfileByUID(token.UID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
		}

		log.Printf("no profile for verified account %s, creating one", token.UID)
		profile = &models.Profile{
			FirebaseUID:     token.UID,
			Username:        usernameFromClaims(name, email),
			Email:           email,
			Role:            models.RoleCommunityVolunteer,
			ProfilePhotoURL: picture,
		}
		if err := h.profileRepository.CreateProfile(profile); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create profile")
		}
	}

	if profile.Disabled {
		return echo.NewHTTPError(http.StatusForbidden, "Account is disabled")
	}

	sessionToken, err := h.generateSessionToken(profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate session token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token":   sessionToken,
		"profile": profile,
	})
}

// generateSessionToken mints the local JWT for a profile
func (h *AuthHandler) generateSessionToken(profile *models.Profile) (string, error) {
	claims := &models.SessionClaims{
		UID:      profile.FirebaseUID,
		Username: profile.Username,
		Role:     profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func usernameFromClaims(name, email string) string {
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
