package middleware

import (
	"net/http"

	"github.com/furs-app/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// AdminGuard restricts a route group to profiles carrying the admin role.
// Runs after JWTAuthMiddleware. Any role value other than exactly "admin" —
// including empty or unrecognized values — falls through to 403, never a
// panic.
func AdminGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFromContext(c)
			if session == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing session")
			}
			if session.Role != models.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
