package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/models"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/session"
	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the verified user id set by the gateway.
const HeaderUserID = "X-User-ID"

const sessionKey = "session"

type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Session builds the caller's session from HeaderUserID and the stored
// profile. A caller without a stored profile gets the standard role so it can
// create one.
func Session(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if uid == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID+" header")
			}

			ctx := c.Request().Context()
			sess := session.New(uid, models.RoleStandard)
			user, err := users.GetUser(ctx, uid)
			switch {
			case err == nil:
				sess.Role = user.Role
			case errors.Is(err, service.ErrUserNotFound):
			default:
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session lookup failed").SetInternal(err)
			}

			c.Set(sessionKey, sess)
			c.SetRequest(c.Request().WithContext(session.NewContext(ctx, sess)))
			return next(c)
		}
	}
}

// SessionFrom returns the session installed by Session, or the zero
// (unauthenticated) session.
func SessionFrom(c echo.Context) session.Session {
	if sess, ok := c.Get(sessionKey).(session.Session); ok {
		return sess
	}
	sess, _ := session.FromContext(c.Request().Context())
	return sess
}

// WithSession installs sess on c. Tests use it in place of Session.
func WithSession(c echo.Context, sess session.Session) {
	c.Set(sessionKey, sess)
}
