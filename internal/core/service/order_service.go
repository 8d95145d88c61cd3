package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// OrderManager creates orders and moves them through their lifecycle for one
// tenant. Consistency is pull-based: nothing here invalidates caches after a
// mutation; callers refresh lists and stats themselves.
type OrderManager struct {
	api    ports.LaundryAPI
	scope  domain.TenantScope
	submit *SubmitGuard
	owner  string
	log    zerolog.Logger

	mu   sync.RWMutex
	last *domain.OrderPage
}

// OrderOption configures an OrderManager.
type OrderOption func(*OrderManager)

// WithSubmitGuard shares g between managers; owner namespaces the keys.
func WithSubmitGuard(g *SubmitGuard, owner string) OrderOption {
	return func(m *OrderManager) {
		m.submit = g
		m.owner = owner
	}
}

// NewOrderManager returns a manager scoped to scope.
func NewOrderManager(api ports.LaundryAPI, scope domain.TenantScope, log zerolog.Logger, opts ...OrderOption) *OrderManager {
	m := &OrderManager{api: api, scope: scope, log: log}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Scope returns the tenant scope the manager operates on.
func (m *OrderManager) Scope() domain.TenantScope { return m.scope }

// CreateOrder submits a new order for client. Validation runs locally and
// fails before any network call.
func (m *OrderManager) CreateOrder(ctx context.Context, client domain.ClientRef, draft domain.OrderDraft) (domain.Order, error) {
	if !m.scope.Resolved() {
		return domain.Order{}, domain.ErrTenantMissing
	}
	if len(draft.Services) == 0 {
		return domain.Order{}, domain.ErrNoServices
	}
	if client.Phone == "" || (client.IsNew() && client.Name == "") {
		return domain.Order{}, domain.ErrMissingClient
	}
	payment := draft.PaymentStatus
	if payment == "" {
		payment = domain.PaymentNotPaid
	}
	if !payment.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidPaymentStatus, payment)
	}

	release, err := m.submit.Acquire(m.owner + ":create")
	if err != nil {
		return domain.Order{}, err
	}
	defer release()

	order, err := m.api.CreateOrder(ctx, m.scope.LaundryID, ports.NewOrder{
		Client:        client,
		Description:   draft.Description,
		Services:      draft.Services,
		PaymentStatus: payment,
		OperatorID:    m.scope.OperatorID,
	})
	if err != nil {
		m.log.Error().Err(err).Str("laundry_id", m.scope.LaundryID).Msg("failed to create order")
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	m.log.Info().
		Str("laundry_id", m.scope.LaundryID).
		Str("order_number", order.OrderNumber).
		Bool("new_client", client.IsNew()).
		Msg("order created")
	return order, nil
}

// UpdateOrderStatus sets the status of an order. With a snapshot, the whole
// order is re-sent because the backend replaces; without one only the status
// is sent. Any valid status is accepted: the UI may jump forward.
func (m *OrderManager) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, snapshot *domain.Order) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	update := ports.OrderUpdate{Status: status}
	if snapshot != nil {
		update = ports.OrderUpdate{Snapshot: snapshotOf(*snapshot)}
		update.Snapshot.Status = status
	}
	return m.update(ctx, orderID, update, "status", string(status))
}

// UpdatePaymentStatus sets the payment status with the same dual mode as
// UpdateOrderStatus.
func (m *OrderManager) UpdatePaymentStatus(ctx context.Context, orderID string, payment domain.PaymentStatus, snapshot *domain.Order) (domain.Order, error) {
	if !payment.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidPaymentStatus, payment)
	}
	update := ports.OrderUpdate{PaymentStatus: payment}
	if snapshot != nil {
		if !snapshot.Status.Valid() {
			return domain.Order{}, fmt.Errorf("%w: snapshot carries %q", domain.ErrInvalidStatus, snapshot.Status)
		}
		update = ports.OrderUpdate{Snapshot: snapshotOf(*snapshot)}
		update.Snapshot.PaymentStatus = payment
	}
	return m.update(ctx, orderID, update, "payment_status", string(payment))
}

// Advance moves order one step forward, re-sending its full snapshot.
func (m *OrderManager) Advance(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.Status.IsTerminal() {
		return domain.Order{}, fmt.Errorf("%w: order %s is already %s", domain.ErrInvalidStatus, order.OrderNumber, order.Status)
	}
	next, ok := order.Status.Next()
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: no step after %q", domain.ErrInvalidStatus, order.Status)
	}
	return m.UpdateOrderStatus(ctx, order.ID, next, &order)
}

func (m *OrderManager) update(ctx context.Context, orderID string, update ports.OrderUpdate, field, value string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrMissingOrderID
	}
	release, err := m.submit.Acquire(m.owner + ":order:" + orderID)
	if err != nil {
		return domain.Order{}, err
	}
	defer release()

	mode := "partial"
	if update.Snapshot != nil {
		mode = "full"
	}
	order, err := m.api.UpdateOrder(ctx, orderID, update)
	if err != nil {
		m.log.Error().Err(err).Str("order_id", orderID).Str(field, value).Msg("failed to update order")
		return domain.Order{}, fmt.Errorf("update order %s: %w", orderID, err)
	}

	m.log.Info().Str("order_id", orderID).Str(field, value).Str("mode", mode).Msg("order updated")
	return order, nil
}

func snapshotOf(o domain.Order) *ports.OrderSnapshot {
	payment := o.PaymentStatus
	if !payment.Valid() {
		payment = domain.PaymentNotPaid
	}
	services := make([]domain.ServiceItem, len(o.Services))
	copy(services, o.Services)
	return &ports.OrderSnapshot{
		Client:        o.Client,
		Description:   o.Description,
		Services:      services,
		Value:         o.Value,
		Status:        o.Status,
		PaymentStatus: payment,
	}
}

// ListOrders fetches one page. On success it becomes the last-known-good page;
// on failure the previous page is kept.
func (m *OrderManager) ListOrders(ctx context.Context, filter domain.OrderFilter) (domain.OrderPage, error) {
	if !m.scope.Resolved() {
		return domain.OrderPage{}, domain.ErrTenantMissing
	}
	if filter.Status != "" {
		if _, err := domain.ParseOrderStatus(filter.Status); err != nil {
			return domain.OrderPage{}, err
		}
	}
	if filter.PaymentStatus != "" {
		if _, err := domain.ParsePaymentStatus(filter.PaymentStatus); err != nil {
			return domain.OrderPage{}, err
		}
	}

	page, err := m.api.ListOrders(ctx, m.scope.LaundryID, filter)
	if err != nil {
		m.log.Warn().Err(err).Str("laundry_id", m.scope.LaundryID).Msg("order list refresh failed, keeping last known page")
		return domain.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}

	m.mu.Lock()
	m.last = &page
	m.mu.Unlock()
	return page, nil
}

// LastKnown returns the last page that loaded successfully.
func (m *OrderManager) LastKnown() (domain.OrderPage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return domain.OrderPage{}, false
	}
	return *m.last, true
}

// Stats recomputes aggregates over the last known page.
func (m *OrderManager) Stats() domain.OrderStats {
	page, _ := m.LastKnown()
	return domain.ComputeOrderStats(page.Orders)
}

// FindByNumber returns the order carrying orderNumber. It does not touch the
// last known page.
func (m *OrderManager) FindByNumber(ctx context.Context, orderNumber string) (domain.Order, error) {
	if !m.scope.Resolved() {
		return domain.Order{}, domain.ErrTenantMissing
	}
	page, err := m.api.ListOrders(ctx, m.scope.LaundryID, domain.OrderFilter{OrderNumber: orderNumber, Page: 1, Limit: 10})
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order %s: %w", orderNumber, err)
	}
	for _, o := range page.Orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return domain.Order{}, fmt.Errorf("order %s: %w", orderNumber, domain.ErrNotFound)
}

// LookupClient finds a client of this laundry by phone. A miss is a normal
// result, reported as found=false with no error.
func (m *OrderManager) LookupClient(ctx context.Context, phone string) (domain.Client, bool, error) {
	if !m.scope.Resolved() {
		return domain.Client{}, false, domain.ErrTenantMissing
	}
	if phone == "" {
		return domain.Client{}, false, domain.ErrMissingClient
	}
	client, err := m.api.FindClientByPhone(ctx, m.scope.LaundryID, phone)
	if errors.Is(err, domain.ErrClientNotFound) || errors.Is(err, domain.ErrNotFound) {
		return domain.Client{}, false, nil
	}
	if err != nil {
		return domain.Client{}, false, fmt.Errorf("lookup client: %w", err)
	}
	return client, true, nil
}

// Services lists the laundry's priced services.
func (m *OrderManager) Services(ctx context.Context) ([]domain.ServiceItem, error) {
	if !m.scope.Resolved() {
		return nil, domain.ErrTenantMissing
	}
	services, err := m.api.ListServices(ctx, m.scope.LaundryID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}
