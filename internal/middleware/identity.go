package middleware

// identity.go holds the context keys set by Authenticate and helpers that
// read them back.  Anonymous callers have no "user" entry.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

const (
	ctxUser   = "user"
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// CurrentUser returns the authenticated user, or nil for anonymous callers.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(ctxUser).(*model.User)
	return u
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c echo.Context) bool { return CurrentUser(c).IsAdmin() }

// userID returns the caller's id as a string, or "anon".
func userID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
