package geocode

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the reverse-geocoding proxy endpoint
type Handler struct {
	client *Client
}

// NewHandler creates a new geocode Handler
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// RegisterRoutes registers the proxy route. Unauthenticated: the client
// calls it while composing a report, before any session exists.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/reverse", h.Reverse)
}

// Reverse proxies a reverse-geocode lookup to Nominatim. Missing lat/lon
// is rejected before any upstream call; the upstream body is relayed
// verbatim on success; every upstream failure maps to one generic 500.
func (h *Handler) Reverse(c echo.Context) error {
	lat := c.QueryParam("lat")
	lon := c.QueryParam("lon")
	if lat == "" || lon == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing lat/lon"})
	}

	body, err := h.client.Reverse(c.Request().Context(), lat, lon)
	if err != nil {
		log.Printf("reverse geocode proxy failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch from Nominatim"})
	}

	return c.JSONBlob(http.StatusOK, body)
}
