package presenter

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
)

// HeaderErrorKind carries the ErrorKind of a failed request. The status
// stays 400 for every failure so existing clients keep working.
const HeaderErrorKind = "X-Error-Kind"

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Raw forwards the ledger's bytes unchanged.
func Raw(c echo.Context, data []byte) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func Text(c echo.Context, msg string) error {
	return c.String(http.StatusOK, msg)
}

// Fail answers 400 with a plain text body.
func Fail(c echo.Context, err error, body string) error {
	logFailure(c, err)
	c.Response().Header().Set(HeaderErrorKind, domain.KindOf(err).String())
	return c.String(http.StatusBadRequest, body)
}

// FailJSON answers 400 with {"error": err}.
func FailJSON(c echo.Context, err error) error {
	logFailure(c, err)
	c.Response().Header().Set(HeaderErrorKind, domain.KindOf(err).String())
	return c.JSON(http.StatusBadRequest, fabvote.ErrorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.InfoContext(c.Request().Context(), "Bad request", slog.String("error", msg), slog.String("module", "rest"))
	c.Response().Header().Set(HeaderErrorKind, domain.KindInvalidInput.String())
	return c.JSON(http.StatusBadRequest, fabvote.ErrorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	slog.InfoContext(c.Request().Context(), "Not found", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusNotFound, fabvote.ErrorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	slog.ErrorContext(c.Request().Context(), "Internal error", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusInternalServerError, fabvote.ErrorResponse{Error: err.Error()})
}

func logFailure(c echo.Context, err error) {
	kind := domain.KindOf(err)
	attrs := []any{
		slog.String("path", c.Path()),
		slog.String("kind", kind.String()),
		slog.String("error", err.Error()),
		slog.String("module", "rest"),
	}
	if kind == domain.KindInternal || kind == domain.KindUnavailable {
		slog.ErrorContext(c.Request().Context(), "Request failed", attrs...)
		return
	}
	slog.InfoContext(c.Request().Context(), "Request failed", attrs...)
}
