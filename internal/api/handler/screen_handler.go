package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// ScreenHandler renders the view model of each role's screen. Route guards
// have already run; these only load what the screen shows.
type ScreenHandler struct{}

func NewScreenHandler() *ScreenHandler {
	return &ScreenHandler{}
}

type screenResponse struct {
	Screen    string              `json:"screen"`
	From      string              `json:"from,omitempty"`
	Role      domain.Role         `json:"role,omitempty"`
	Laundry   *domain.Laundry     `json:"laundry,omitempty"`
	Laundries []domain.Laundry    `json:"laundries,omitempty"`
	Dashboard *domain.Dashboard   `json:"dashboard,omitempty"`
	Orders    *listOrdersResponse `json:"orders,omitempty"`
}

// Login handles GET /login. The "from" location is echoed, not followed.
func (h *ScreenHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, screenResponse{Screen: "login", From: c.QueryParam("from")})
}

// SuperAdmin handles GET /dashboard.
func (h *ScreenHandler) SuperAdmin(c echo.Context) error {
	return h.laundries(c, "super-admin")
}

// MultiAdmin handles GET /multi-admin: every laundry of the account.
func (h *ScreenHandler) MultiAdmin(c echo.Context) error {
	return h.laundries(c, "multi-admin")
}

func (h *ScreenHandler) laundries(c echo.Context, screen string) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	laundries, err := ws.Laundries(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, screenResponse{
		Screen:    screen,
		Role:      ws.Role(),
		Laundry:   ws.Tenant.Laundry(),
		Laundries: laundries,
	})
}

// AdminDashboard handles GET /admin/dashboard.
func (h *ScreenHandler) AdminDashboard(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	d, err := ws.Reports().LoadDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, screenResponse{
		Screen:    "admin-dashboard",
		Role:      ws.Role(),
		Laundry:   ws.Tenant.Laundry(),
		Dashboard: &d,
	})
}

// AdminOrders handles GET /admin/orders: the first page with its stats.
func (h *ScreenHandler) AdminOrders(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var q listOrdersQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	m := ws.Orders()
	page, err := m.ListOrders(c.Request().Context(), q.toFilter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, screenResponse{
		Screen:  "admin-orders",
		Role:    ws.Role(),
		Laundry: ws.Tenant.Laundry(),
		Orders:  newListOrdersResponse(page, m.Stats()),
	})
}
