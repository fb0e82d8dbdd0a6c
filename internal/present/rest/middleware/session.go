package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/service"
)

var tracer = otel.Tracer("session")

type SessionMiddleware struct {
	session *service.SessionService
}

func NewSessionMiddleware(session *service.SessionService) *SessionMiddleware {
	return &SessionMiddleware{
		session: session,
	}
}

// IdentifyUser resolves the user cookie into the requester. Requests with
// a missing or unreadable cookie pass through anonymously.
func (s *SessionMiddleware) IdentifyUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Session.Middleware.IdentifyUser")
		defer span.End()

		cookie, err := c.Cookie(domain.UserCookieName)
		if err == nil {
			if cookie.Value == "" {
				span.RecordError(fmt.Errorf("empty session cookie"))
				goto skipIdentify
			}

			user, err := s.session.Decode(ctx, cookie.Value)
			if err != nil {
				span.RecordError(errors.Wrap(err, "SessionMiddleware.IdentifyUser: s.session.Decode failed"))
				goto skipIdentify
			}

			c.Set(domain.RequesterCtxKey, user)
			span.SetAttributes(attribute.String("RequesterId", user.ID))
		}

	skipIdentify:
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
