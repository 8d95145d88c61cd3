package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/normalize"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// reportPaths maps each report to its endpoint template.
var reportPaths = map[domain.ReportKind]string{
	domain.ReportThisMonth:   "/reports/this-month-analytics/",
	domain.ReportTopClients:  "/reports/top/clients/month/",
	domain.ReportTopServices: "/reports/top/services/",
	domain.ReportWeek:        "/order/week-analytics/",
	domain.ReportDay:         "/order/day-analytics/",
	domain.ReportMonths:      "/reports/months-analytics/",
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	raw, err := c.call(ctx, http.MethodPost, "/auth/login", "/auth/login", nil, creds)
	if err != nil {
		if StatusCode(err) == http.StatusUnauthorized || StatusCode(err) == http.StatusBadRequest {
			return domain.Session{}, fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		return domain.Session{}, err
	}
	return normalize.Login(raw), nil
}

func (c *Client) Laundries(ctx context.Context) ([]domain.Laundry, error) {
	raw, err := c.call(ctx, http.MethodGet, "/laundry/info", "/laundry/info", nil, nil)
	if err != nil {
		return nil, err
	}
	return normalize.Laundries(raw), nil
}

func (c *Client) ListOrders(ctx context.Context, laundryID string, filter domain.OrderFilter) (domain.OrderPage, error) {
	raw, err := c.call(ctx, http.MethodGet, "/order/laundry/:laundryId", "/order/laundry/"+url.PathEscape(laundryID), orderQuery(filter), nil)
	if err != nil {
		return domain.OrderPage{}, err
	}
	return normalize.OrderPage(raw), nil
}

func orderQuery(f domain.OrderFilter) url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("status", f.Status)
	set("paymentStatus", f.PaymentStatus)
	set("phone", f.Phone)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	set("orderNumber", f.OrderNumber)
	return q
}

func (c *Client) CreateOrder(ctx context.Context, laundryID string, order ports.NewOrder) (domain.Order, error) {
	body := createPayload(order)
	raw, err := c.call(ctx, http.MethodPost, "/order/:laundryId", "/order/"+url.PathEscape(laundryID), nil, body)
	if err != nil {
		return domain.Order{}, err
	}
	return normalize.Order(orderBody(raw)), nil
}

func (c *Client) UpdateOrder(ctx context.Context, orderID string, update ports.OrderUpdate) (domain.Order, error) {
	raw, err := c.call(ctx, http.MethodPut, "/order/:orderId", "/order/"+url.PathEscape(orderID), nil, updatePayload(update))
	if err != nil {
		return domain.Order{}, err
	}
	return normalize.Order(orderBody(raw)), nil
}

func (c *Client) ListServices(ctx context.Context, laundryID string) ([]domain.ServiceItem, error) {
	raw, err := c.call(ctx, http.MethodGet, "/service/laundry/:laundryId", "/service/laundry/"+url.PathEscape(laundryID), nil, nil)
	if err != nil {
		return nil, err
	}
	return normalize.Services(raw), nil
}

func (c *Client) FindClientByPhone(ctx context.Context, laundryID, phone string) (domain.Client, error) {
	path := "/client/phone/" + url.PathEscape(laundryID) + "/" + url.PathEscape(phone)
	raw, err := c.call(ctx, http.MethodGet, "/client/phone/:laundryId/:phone", path, nil, nil)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Client{}, fmt.Errorf("%s: %w", phone, domain.ErrClientNotFound)
	}
	if err != nil {
		return domain.Client{}, err
	}
	client := normalize.Client(normalize.First(raw))
	if client.ID == "" && client.Phone == "" {
		return domain.Client{}, fmt.Errorf("%s: %w", phone, domain.ErrClientNotFound)
	}
	return client, nil
}

func (c *Client) Report(ctx context.Context, kind domain.ReportKind, laundryID string) (any, error) {
	prefix, ok := reportPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown report %q", domain.ErrValidation, kind)
	}
	return c.call(ctx, http.MethodGet, prefix+":laundryId", prefix+url.PathEscape(laundryID), nil, nil)
}

// orderBody unwraps an order returned under "order" or "data".
func orderBody(raw any) map[string]any {
	rec := normalize.Record(raw)
	for _, k := range []string{"order", "data"} {
		if inner := normalize.Record(rec[k]); len(inner) > 0 {
			return inner
		}
	}
	return rec
}
