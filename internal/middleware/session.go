package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/model"
	"github.com/iliyamo/study-room-reservation/internal/repository"
	"github.com/iliyamo/study-room-reservation/internal/session"
)

// UserLoader loads the account a session belongs to.
type UserLoader interface {
	User(ctx context.Context, id uint64) (*model.User, error)
}

// Authenticate resolves the session cookie and injects the user into the
// context under "user", "user_id" and "role".  Requests without a valid
// session continue anonymously; only store failures abort the request.
func Authenticate(sessions *session.Manager, users UserLoader, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			rec, err := sessions.Lookup(ctx, c.Request())
			if errors.Is(err, session.ErrNotFound) {
				return next(c)
			}
			if err != nil {
				return err
			}

			u, err := users.User(ctx, rec.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				// account removed under a live session
				log.Debug("session for unknown user", zap.Uint64("user_id", rec.UserID))
				return next(c)
			}
			if err != nil {
				return err
			}

			c.Set(ctxUser, u)
			c.Set(ctxUserID, strconv.FormatUint(u.ID, 10))
			c.Set(ctxRole, string(u.Role))
			return next(c)
		}
	}
}
