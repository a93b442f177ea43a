package handler // handler defines http handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/study-room-reservation/internal/validation"
)

// dbTimeout bounds the storage work of a single request.
const dbTimeout = 5 * time.Second

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// bindPayload decodes the request body into a generic payload.  Path and
// query parameters are deliberately not merged in.  An empty body yields an
// empty payload.
func bindPayload(c echo.Context) (validation.Payload, error) {
	var p validation.Payload
	if err := new(echo.DefaultBinder).BindBody(c, &p); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if p == nil {
		p = validation.Payload{}
	}
	return p, nil
}
