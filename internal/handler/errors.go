package handler

import (
	"net/http"

	"github.com/Eursukkul/booking-microservice/checkin-service/internal/scanner"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
)

// httpError maps a service error onto the response status.
func httpError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrUserNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrNotRegistered),
		errors.Is(err, service.ErrTicketRedeemed),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrConcurrencyConflict),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, scanner.ErrScanInProgress):
		code = http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrUnauthenticated):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, errors.NotValid):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrTransientIO):
		code = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
