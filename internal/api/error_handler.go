package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/api/middleware"
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/backend"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	State    string `json:"state,omitempty"`
	Location string `json:"location,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if code == http.StatusServiceUnavailable && body.State == "loading" {
			c.Response().Header().Set("Retry-After", middleware.RetryAfterSeconds)
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes. Order matters:
	// ErrInvalidCredentials also wraps the backend 401.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: "session expired", Location: guard.LoginLocation(c.Request().URL.RequestURI())}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrTenantMissing):
		return http.StatusConflict, errorResponse{Error: "no laundry is bound to this session", State: "no_tenant"}
	case errors.Is(err, domain.ErrSubmitInFlight):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case domain.IsValidation(err):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, errorResponse{Error: "client not found"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrSessionUnavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: "session store unavailable", State: "loading"}
	}

	if code := backend.StatusCode(err); code != 0 {
		log.Warn().
			Err(err).
			Int("backend_status", code).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("backend error")
		return http.StatusBadGateway, errorResponse{Error: "backend error"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
