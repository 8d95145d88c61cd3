package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lavanda/laundry-dashboard/internal/api/middleware"
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
)

// ctxWorkspace extracts the workspace injected by the Session middleware and
// fails fast before any service call:
//   - the workspace must be present (presence proves the middleware ran).
//   - the session must be authenticated; guards normally catch this first.
func ctxWorkspace(c echo.Context) (*service.Workspace, error) {
	ws := middleware.Workspace(c)
	if ws == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	if !ws.Session.IsAuthenticated() {
		return nil, domain.ErrUnauthorized
	}
	return ws, nil
}

// bindValid binds the request body into req and validates it.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
