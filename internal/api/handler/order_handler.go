package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/pkg/metrics"
)

// OrderHandler serves the order screens' data. Every call is scoped to the
// workspace's tenant; mutations never refresh lists on their own.
type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// List handles GET /api/orders.
//
// @Summary      List orders of the active laundry
// @Tags         orders
// @Produce      json
// @Param        page           query     int     false  "Page (1-based)"
// @Param        limit          query     int     false  "Page size"
// @Param        status         query     string  false  "Order status"
// @Param        paymentStatus  query     string  false  "Payment status"
// @Param        phone          query     string  false  "Client phone"
// @Param        startDate      query     string  false  "Start date (YYYY-MM-DD)"
// @Param        endDate        query     string  false  "End date (YYYY-MM-DD)"
// @Param        orderNumber    query     string  false  "Order number"
// @Success      200            {object}  listOrdersResponse
// @Failure      400            {object}  map[string]string
// @Failure      401            {object}  map[string]string
// @Failure      409            {object}  map[string]string
// @Router       /api/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
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

	return c.JSON(http.StatusOK, newListOrdersResponse(page, m.Stats()))
}

// Create handles POST /api/orders.
//
// @Summary      Create an order
// @Description  Creates the client inline when no client id is given.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body      createOrderRequest  true  "Order"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req createOrderRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	order, err := ws.Orders().CreateOrder(c.Request().Context(), req.Client.toDomain(), domain.OrderDraft{
		Description:   req.Description,
		Services:      toServices(req.Services),
		PaymentStatus: domain.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(string(order.PaymentStatus)).Inc()
	return c.JSON(http.StatusCreated, order)
}

// UpdateStatus handles PUT /api/orders/:id/status.
//
// @Summary      Change an order's status
// @Description  With "order" the full snapshot is re-sent; without it only the status is.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Order id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	id := c.Param("id")
	order, err := ws.Orders().UpdateOrderStatus(c.Request().Context(), id, domain.OrderStatus(req.Status), req.Order.toDomain(id))
	if err != nil {
		return err
	}

	metrics.OrderUpdatesTotal.WithLabelValues("status", payloadMode(req.Order)).Inc()
	return c.JSON(http.StatusOK, order)
}

// UpdatePayment handles PUT /api/orders/:id/payment.
//
// @Summary      Change an order's payment status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Order id"
// @Param        body  body      updatePaymentRequest  true  "New payment status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/orders/{id}/payment [put]
func (h *OrderHandler) UpdatePayment(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req updatePaymentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	id := c.Param("id")
	order, err := ws.Orders().UpdatePaymentStatus(c.Request().Context(), id, domain.PaymentStatus(req.PaymentStatus), req.Order.toDomain(id))
	if err != nil {
		return err
	}

	metrics.OrderUpdatesTotal.WithLabelValues("payment_status", payloadMode(req.Order)).Inc()
	return c.JSON(http.StatusOK, order)
}

func payloadMode(snapshot *orderSnapshotRequest) string {
	if snapshot == nil {
		return "partial"
	}
	return "full"
}

// Services handles GET /api/services.
//
// @Summary      List the active laundry's services
// @Tags         orders
// @Produce      json
// @Success      200  {array}   domain.ServiceItem
// @Failure      401  {object}  map[string]string
// @Router       /api/services [get]
func (h *OrderHandler) Services(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	services, err := ws.Orders().Services(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}

// LookupClient handles GET /api/clients/:phone. A missing client is a
// normal 200 answer with found=false.
//
// @Summary      Find a client by phone
// @Tags         orders
// @Produce      json
// @Param        phone  path      string  true  "Client phone"
// @Success      200    {object}  clientLookupResponse
// @Failure      401    {object}  map[string]string
// @Router       /api/clients/{phone} [get]
func (h *OrderHandler) LookupClient(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	client, found, err := ws.Orders().LookupClient(c.Request().Context(), c.Param("phone"))
	if err != nil {
		return err
	}
	if !found {
		return c.JSON(http.StatusOK, clientLookupResponse{Found: false})
	}
	return c.JSON(http.StatusOK, clientLookupResponse{Found: true, Client: &client})
}
