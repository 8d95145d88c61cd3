package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/pkg/metrics"
)

// RetryAfterSeconds is advertised while the session store is unreadable.
const RetryAfterSeconds = "2"

type guardResponse struct {
	Error    string `json:"error,omitempty"`
	State    string `json:"state,omitempty"`
	Location string `json:"location,omitempty"`
}

// Protected renders the route only for an authenticated session whose role
// is in allowed; an empty list admits every role.
func Protected(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, role := workspaceState(c)
			d := guard.Protected(state, role, c.Request().URL.RequestURI(), allowed...)
			return apply(c, d, next)
		}
	}
}

// Public renders the route only for anonymous callers; an authenticated
// session is sent to its role's home, or to redirectTo.
func Public(redirectTo string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, role := workspaceState(c)
			return apply(c, guard.Public(state, role, redirectTo), next)
		}
	}
}

func workspaceState(c echo.Context) (guard.State, domain.Role) {
	ws := Workspace(c)
	if ws == nil {
		return guard.StateAnonymous, ""
	}
	return ws.State(), ws.Role()
}

func apply(c echo.Context, d guard.Decision, next echo.HandlerFunc) error {
	metrics.GuardDecisionsTotal.WithLabelValues(d.Outcome.String()).Inc()

	switch d.Outcome {
	case guard.OutcomeRender:
		return next(c)
	case guard.OutcomeLoading:
		c.Response().Header().Set("Retry-After", RetryAfterSeconds)
		return c.JSON(http.StatusServiceUnavailable, guardResponse{State: "loading"})
	case guard.OutcomeForbidden:
		return c.JSON(http.StatusForbidden, guardResponse{Error: "access denied"})
	}

	if wantsJSON(c) {
		if strings.HasPrefix(d.Location, guard.LoginPath) {
			return c.JSON(http.StatusUnauthorized, guardResponse{Error: "authentication required", Location: d.Location})
		}
		return c.JSON(http.StatusOK, guardResponse{State: "redirect", Location: d.Location})
	}
	return c.Redirect(http.StatusFound, d.Location)
}

// wantsJSON reports whether the caller is an API client rather than a
// browser navigation.
func wantsJSON(c echo.Context) bool {
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return true
	}
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}
