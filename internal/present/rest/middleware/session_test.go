package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/service"
)

func serve(t *testing.T, session *service.SessionService, cookie *http.Cookie, next echo.HandlerFunc) {
	t.Helper()

	e := echo.New()
	e.Use(NewSessionMiddleware(session).IdentifyUser)
	e.GET("/", next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestIdentifyUserSetsRequester(t *testing.T) {
	session := service.NewSessionService("")
	value, err := session.Encode(context.Background(), json.RawMessage(`{"ID":"user_a@x","Email":"a@x"}`))
	require.NoError(t, err)

	var requester *fabvote.User
	serve(t, session, &http.Cookie{Name: domain.UserCookieName, Value: value}, func(c echo.Context) error {
		requester, _ = c.Get(domain.RequesterCtxKey).(*fabvote.User)
		return c.NoContent(http.StatusOK)
	})

	require.NotNil(t, requester)
	require.Equal(t, "user_a@x", requester.ID)
}

func TestIdentifyUserIgnoresBadCookie(t *testing.T) {
	session := service.NewSessionService("s3cret")

	called := false
	serve(t, session, &http.Cookie{Name: domain.UserCookieName, Value: "garbage"}, func(c echo.Context) error {
		called = true
		require.Nil(t, c.Get(domain.RequesterCtxKey))
		return c.NoContent(http.StatusOK)
	})
	require.True(t, called)
}

func TestIdentifyUserPropagatesSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)

	var handlerSpan trace.SpanContext
	serve(t, service.NewSessionService(""), nil, func(c echo.Context) error {
		handlerSpan = trace.SpanContextFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	require.True(t, handlerSpan.IsValid())

	spans := recorder.Ended()
	var middlewareSpan trace.SpanContext
	for _, span := range spans {
		if span.Name() == "Session.Middleware.IdentifyUser" {
			middlewareSpan = span.SpanContext()
		}
	}
	require.True(t, middlewareSpan.IsValid())
	require.Equal(t, middlewareSpan.SpanID(), handlerSpan.SpanID())
}
