package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-room-reservation/internal/middleware"
	"github.com/iliyamo/study-room-reservation/internal/service"
	"github.com/iliyamo/study-room-reservation/internal/session"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth     *service.AuthService
	Sessions *session.Manager
}

func NewAuthHandler(a *service.AuthService, s *session.Manager) *AuthHandler {
	return &AuthHandler{Auth: a, Sessions: s}
}

// Register creates an account and signs it in.  An admin creating another
// account keeps their own session.
func (h *AuthHandler) Register(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	caller := middleware.CurrentUser(c)
	u, err := h.Auth.Register(ctx, caller, p)
	if err != nil {
		return writeError(c, err)
	}
	if !caller.IsAdmin() {
		if _, err := h.Sessions.Start(ctx, c.Response(), u.ID); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusCreated, u.Public())
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Auth.Login(ctx, p)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.Sessions.Start(ctx, c.Response(), u.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u.Public())
}

// Logout destroys the current session, if any.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Sessions.End(ctx, c.Response(), c.Request()); err != nil {
		return err
	}
	return c.String(http.StatusOK, "OK")
}

// Me returns the signed-in user or null.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, u.Public())
}
