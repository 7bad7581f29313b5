package handlers

import (
	"log"

	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// notifySessionUser records a notification triggered by the current
// session user. Self-notifications are skipped, and a failed write is
// logged rather than failing the triggering request: the like or rating
// itself already committed.
func notifySessionUser(
	c echo.Context,
	notifRepo repositories.NotificationRepository,
	profileRepo repositories.ProfileRepository,
	n *models.Notification,
) {
	session := middleware.SessionFromContext(c)
	if session == nil || session.UID == n.RecipientUID {
		return
	}

	n.SenderUID = session.UID
	n.SenderName = session.Username
	if profile, err := profileRepo.GetProfileByUID(session.UID); err == nil {
		n.SenderName = profile.Username
		n.SenderPhotoURL = profile.ProfilePhotoURL
	}

	if err := notifRepo.CreateNotification(c.Request().Context(), n); err != nil {
		log.Printf("failed to create %s notification for %s: %v", n.Type, n.RecipientUID, err)
	}
}
