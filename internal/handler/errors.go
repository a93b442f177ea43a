package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/middleware"
	"github.com/iliyamo/study-room-reservation/internal/service"
)

// writeError renders the service error taxonomy.  Anything it does not
// recognise is returned unchanged for HTTPErrorHandler to log as a 500.
func writeError(c echo.Context, err error) error {
	var (
		verr     *service.ValidationError
		conflict *service.ConflictError
		notFound *service.NotFoundError
		unauth   *service.UnauthorizedError
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": verr.Message, "field": verr.Field})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": conflict.Message})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": notFound.Message})
	case errors.As(err, &unauth):
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": unauth.Message})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"message": middleware.ForbiddenMessage})
	}
	return err
}

// HTTPErrorHandler answers errors that escaped the handlers.  echo's own
// HTTP errors keep their status; everything else is logged and reported as
// a bare 500 so no internal detail reaches the client.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		msg := "Internal Server Error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(status)
			}
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err))
			msg = "Internal Server Error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"message": msg})
	}
}
