package router

import (
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/handler"
	"github.com/iliyamo/study-room-reservation/internal/middleware"
	"github.com/iliyamo/study-room-reservation/internal/session"
)

// NewEcho builds the echo instance with the global middleware chain:
// request id, request log, panic recovery, optional static client and
// session loading.
func NewEcho(log *zap.Logger, sessions *session.Manager, users middleware.UserLoader, staticDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	if staticDir != "" {
		// built client with history fallback to index.html
		e.Use(echomw.StaticWithConfig(echomw.StaticConfig{
			Root:  staticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/api")
			},
		}))
	}
	e.Use(middleware.Authenticate(sessions, users, log))
	return e
}
