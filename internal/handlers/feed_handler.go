package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/repositories"
	"github.com/furs-app/backend/internal/viewmodel"
	"github.com/labstack/echo/v4"
)

// feedLimit bounds how many reports one feed snapshot carries
const feedLimit = 100

// FeedHandler serves the enriched report feed: a one-shot variant and a
// live SSE stream driven by the store's change stream.
type FeedHandler struct {
	postRepository repositories.PostRepository
	likeRepository repositories.LikeRepository
	resolver       viewmodel.AddressResolver
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	likeRepo repositories.LikeRepository,
	resolver viewmodel.AddressResolver,
) *FeedHandler {
	return &FeedHandler{
		postRepository: postRepo,
		likeRepository: likeRepo,
		resolver:       resolver,
	}
}

// RegisterFeedRoutes registers feed routes. The group carries optional
// auth: anonymous viewers get the list without like flags.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/live", h.LiveFeed)
}

func (h *FeedHandler) viewerUID(c echo.Context) string {
	if session := middleware.SessionFromContext(c); session != nil {
		return session.UID
	}
	return ""
}

// GetFeed returns the current enriched feed once
func (h *FeedHandler) GetFeed(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > feedLimit {
		limit = 20
	}

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	vm := viewmodel.NewLiveList(h.likeRepository, h.resolver, h.viewerUID(c))
	items := vm.BuildSnapshot(c.Request().Context(), posts)

	return c.JSON(http.StatusOK, echo.Map{"posts": items})
}

// LiveFeed streams enriched feed snapshots over SSE until the client
// disconnects. Each connection gets its own view-model and store
// subscription; both tear down with the request context.
func (h *FeedHandler) LiveFeed(c echo.Context) error {
	ctx := c.Request().Context()

	snapshots, err := h.postRepository.WatchPosts(ctx, feedLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open feed subscription")
	}

	vm := viewmodel.NewLiveList(h.likeRepository, h.resolver, h.viewerUID(c))
	go vm.Run(ctx, snapshots)

	sub, cancel := vm.Subscribe()
	defer cancel()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case items, ok := <-sub:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(items)
			if err != nil {
				log.Printf("failed to encode feed snapshot: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
