package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ForbiddenMessage is the body message of every 403 from the role gate.
const ForbiddenMessage = "Forbidden: Admin access only"

// RequireRole returns a middleware function that enforces that the
// authenticated user has one of the specified roles.  It runs before any
// body parsing or storage access, so a rejected request has no effect.  It
// assumes Authenticate has stored the role in the context under "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"message": ForbiddenMessage})
			}
			return next(c)
		}
	}
}

// RequireAdmin gates admin-only routes.
func RequireAdmin() echo.MiddlewareFunc { return RequireRole("admin") }
