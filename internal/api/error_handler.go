package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/exercisetracker/exercise-tracker/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// With legacy set, every rejected submission (domain errors plus bind and
// validation failures) is written as HTTP 200 with a plain-text message body,
// which is what existing exercise tracker clients expect. Unknown routes and
// server errors keep their status.
func NewHTTPErrorHandler(log zerolog.Logger, legacy bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, rejected := resolveError(err, log, c)
		if legacy && rejected {
			_ = c.String(http.StatusOK, msg)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// resolveError reports the status, the client message and whether err is a
// rejected submission rather than a routing or server failure.
func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), he.Code == http.StatusBadRequest
	}

	// ErrInvalidID also matches ErrUserNotFound, so it is checked first.
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusNotFound, "invalid id", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "unknown user", true
	case errors.Is(err, domain.ErrInvalidDate):
		return http.StatusBadRequest, "invalid date", true
	case errors.Is(err, domain.ErrInvalidDuration):
		return http.StatusBadRequest, "invalid duration", true
	case errors.Is(err, domain.ErrInvalidUsername):
		return http.StatusBadRequest, "invalid username", true
	case errors.Is(err, domain.ErrRequestInProgress):
		return http.StatusConflict, "request in progress", true
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", false
}
