package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/service"
)

// statusOf maps service sentinels to HTTP codes. Anything unknown is a 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err under event and turns it into an *echo.HTTPError. Client
// errors carry the service message; server errors carry only reason.
func fail(l *slog.Logger, event, reason string, err error) error {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", reason, "error", err)
		if status == http.StatusBadGateway {
			return echo.NewHTTPError(status, err.Error())
		}
		return echo.NewHTTPError(status, reason)
	}
	l.Warn(event, "status", status, "reason", reason, "error", err)
	return echo.NewHTTPError(status, err.Error())
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", 400, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("id is not a positive integer")
	}
	return uint(id), nil
}
