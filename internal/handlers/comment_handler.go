package handlers

import (
	"log"
	"net/http"

	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	postRepository         repositories.PostRepository
	profileRepository      repositories.ProfileRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	profileRepo repositories.ProfileRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		postRepository:         postRepo,
		profileRepository:      profileRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetComments)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment adds a comment to a report and notifies the author
func (h *CommentHandler) CreateComment(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	comment := &models.Comment{
		PostID:         objID,
		AuthorUID:      session.UID,
		AuthorUsername: session.Username,
		Content:        req.Content,
	}

	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), postID, 1); err != nil {
		log.Printf("failed to bump comments count for post %s: %v", postID, err)
	}

	notifySessionUser(c, h.notificationRepository, h.profileRepository, &models.Notification{
		RecipientUID: post.AuthorUID,
		Type:         models.NotificationComment,
		PostID:       postID,
	})

	return c.JSON(http.StatusCreated, comment)
}

// GetComments lists all comments for a report, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comments)
}

// DeleteComment deletes a comment, author only
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	commentID := c.Param("id")

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		if err.Error() == "comment not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if comment.AuthorUID != session.UID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this comment")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), commentID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.postRepository.IncrementCommentsCount(c.Request().Context(), comment.PostID.Hex(), -1); err != nil {
		log.Printf("failed to drop comments count for post %s: %v", comment.PostID.Hex(), err)
	}

	return c.NoContent(http.StatusNoContent)
}
