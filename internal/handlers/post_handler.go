package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/furs-app/backend/internal/heatmap"
	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to animal reports
type PostHandler struct {
	postRepository    repositories.PostRepository
	likeRepository    repositories.LikeRepository
	commentRepository repositories.CommentRepository
	profileRepository repositories.ProfileRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	commentRepo repositories.CommentRepository,
	profileRepo repositories.ProfileRepository,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		likeRepository:    likeRepo,
		commentRepository: commentRepo,
		profileRepository: profileRepo,
	}
}

// RegisterPostRoutes registers report-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/top-areas", h.GetTopAreas)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost submits a new report. Validation (description, uploaded photo
// URL, status) fails fast before any document write; author fields are
// denormalized from the submitter's profile.
func (h *PostHandler) CreatePost(c echo.Context) error {
	session := middleware.SessionFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorUID:      session.UID,
		AuthorUsername: session.Username,
		Description:    req.Description,
		PhotoURL:       req.PhotoURL,
		Status:         req.Status,
		AnimalType:     req.AnimalType,
		Breed:          req.Breed,
		CoatColor:      req.CoatColor,
		Location:       req.Location,
	}
	if profile, err := h.profileRepository.GetProfileByUID(session.UID); err == nil {
		post.AuthorUsername = profile.Username
		post.AuthorPhotoURL = profile.ProfilePhotoURL
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a report by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err.Error() == "post not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves reports, optionally filtered by status or author
func (h *PostHandler) GetPosts(c echo.Context) error {
	authorUID := c.QueryParam("author_uid")
	status := c.QueryParam("status")
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit == 0 {
		limit = 10
	}

	var posts []models.Post
	var err error

	switch {
	case authorUID != "":
		posts, err = h.postRepository.GetPostsByAuthor(c.Request().Context(), authorUID, skip, limit)
	case status != "":
		posts, err = h.postRepository.GetPostsByStatus(c.Request().Context(), status, skip, limit)
	default:
		posts, err = h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	}

	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, posts)
}

// UpdatePost updates an existing report, owner only
func (h *PostHandler) UpdatePost(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err.Error() == "post not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.AuthorUID != session.UID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can edit this post")
	}

	if req.Description != "" {
		post.Description = req.Description
	}
	if req.PhotoURL != "" {
		post.PhotoURL = req.PhotoURL
	}
	if req.Status != "" {
		post.Status = req.Status
	}
	if req.AnimalType != "" {
		post.AnimalType = req.AnimalType
	}
	if req.Breed != "" {
		post.Breed = req.Breed
	}
	if req.CoatColor != "" {
		post.CoatColor = req.CoatColor
	}
	if req.Location != nil {
		post.Location = req.Location
	}

	if err := h.postRepository.UpdatePost(c.Request().Context(), postID, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost deletes a report, owner only. Like and comment records for
// the report are cleaned up best-effort after the primary delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if err.Error() == "post not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if post.AuthorUID != session.UID {
		return echo.NewHTTPError(http.StatusForbidden, "Only the author can delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.likeRepository.DeleteByPostID(c.Request().Context(), postID); err != nil {
		log.Printf("failed to clean up likes for deleted post %s: %v", postID, err)
	}
	if err := h.commentRepository.DeleteByPostID(c.Request().Context(), postID); err != nil {
		log.Printf("failed to clean up comments for deleted post %s: %v", postID, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTopAreas summarizes located reports into the most-reported grid cells
func (h *PostHandler) GetTopAreas(c echo.Context) error {
	// The summary runs over the most recent reports; 1000 covers the
	// community sizes this app serves.
	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), 0, 1000)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var points []heatmap.Point
	for _, p := range posts {
		if p.Location == nil {
			continue
		}
		points = append(points, heatmap.Point{Lat: p.Location.Lat, Lng: p.Location.Lng})
	}

	return c.JSON(http.StatusOK, echo.Map{"areas": heatmap.TopAreas(points)})
}
