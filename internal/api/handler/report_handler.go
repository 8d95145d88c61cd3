package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

type ReportHandler struct{}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{}
}

// Dashboard handles GET /api/reports/dashboard. Either every report loads or
// the whole request fails.
//
// @Summary      All dashboard reports
// @Tags         reports
// @Produce      json
// @Success      200  {object}  domain.Dashboard
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	d, err := ws.Reports().LoadDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Report handles GET /api/reports/:kind.
//
// @Summary      One report
// @Tags         reports
// @Produce      json
// @Param        kind  path      string  true  "this-month, top-clients, top-services, week, day or months"
// @Success      200   {object}  any
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/reports/{kind} [get]
func (h *ReportHandler) Report(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	out, err := ws.Reports().Report(c.Request().Context(), domain.ReportKind(c.Param("kind")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
