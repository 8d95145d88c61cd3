package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
)

// lookupPageSize bounds how many orders the public page shows.
const lookupPageSize = 20

// LookupHandler serves the public page where a client checks their orders.
// It runs without a session; the laundry comes from the path.
type LookupHandler struct {
	api ports.LaundryAPI
	log zerolog.Logger
}

func NewLookupHandler(api ports.LaundryAPI, log zerolog.Logger) *LookupHandler {
	return &LookupHandler{api: api, log: log}
}

type lookupResponse struct {
	Found  bool           `json:"found"`
	Client *domain.Client `json:"client,omitempty"`
	Orders []orderView    `json:"orders"`
}

// Lookup handles GET /lookup/:laundryId/:phone.
//
// @Summary      Public client lookup
// @Tags         lookup
// @Produce      json
// @Param        laundryId  path      string  true  "Laundry id"
// @Param        phone      path      string  true  "Client phone"
// @Success      200        {object}  lookupResponse
// @Router       /lookup/{laundryId}/{phone} [get]
func (h *LookupHandler) Lookup(c echo.Context) error {
	scope := domain.TenantScope{LaundryID: c.Param("laundryId")}
	orders := service.NewOrderManager(h.api, scope, h.log)
	ctx := c.Request().Context()

	client, found, err := orders.LookupClient(ctx, c.Param("phone"))
	if err != nil {
		return err
	}
	if !found {
		return c.JSON(http.StatusOK, lookupResponse{Found: false, Orders: []orderView{}})
	}

	page, err := orders.ListOrders(ctx, domain.OrderFilter{Phone: client.Phone, Page: 1, Limit: lookupPageSize})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lookupResponse{Found: true, Client: &client, Orders: toOrderViews(page.Orders)})
}
