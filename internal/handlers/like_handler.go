package handlers

import (
	"net/http"

	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository         repositories.LikeRepository
	postRepository         repositories.PostRepository
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:         likeRepo,
		postRepository:         postRepo,
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/likes/toggle", h.ToggleLike)
	g.GET("/posts/:post_id/likes/count", h.GetLikesCountForPost)
	g.GET("/posts/:post_id/likes/status", h.GetUserLikeStatusForPost)
}

// ToggleLike likes the post if the viewer has not liked it, unlikes it
// otherwise. The like record and the counter commit in one transaction, so
// a like/unlike pair always restores the original count. Liking notifies
// the author.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	postID := c.Param("post_id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	liked, err := h.likeRepository.ToggleLike(c.Request().Context(), postID, session.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if liked {
		notifySessionUser(c, h.notificationRepository, h.profileRepository, &models.Notification{
			RecipientUID: post.AuthorUID,
			Type:         models.NotificationLike,
			PostID:       postID,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "liked": liked})
}

// GetLikesCountForPost retrieves the number of like records for a report
func (h *LikeHandler) GetLikesCountForPost(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	count, err := h.likeRepository.CountByPostID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}

// GetUserLikeStatusForPost checks if the viewer has liked a report
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(c.Request().Context(), postID, session.UID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "user_uid": session.UID, "has_liked": hasLiked})
}
