package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Keeps the status and message of backend failures.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//
// Every error is rendered as {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUnsupportedRole):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	}

	var ae *domain.APIError
	if errors.As(err, &ae) {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			return http.StatusBadRequest, ae.Message
		case errors.Is(err, domain.ErrInvalidResponse):
			log.Error().Err(err).Str("path", c.Path()).Msg("backend sent an invalid response")
			return http.StatusBadGateway, "invalid response from backend"
		case ae.Status == 0:
			// no response at all
			log.Error().Err(err).Str("path", c.Path()).Msg("backend unreachable")
			return http.StatusBadGateway, ae.Message
		case ae.Status >= 400:
			return ae.Status, ae.Message
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
