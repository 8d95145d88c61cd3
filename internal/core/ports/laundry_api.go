package ports

import (
	"context"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// OrderSnapshot is the full replacement payload of an order update. The
// backend update endpoint replaces rather than patches, so every field is
// re-sent alongside the change. A zero Value is recomputed from the service
// prices.
type OrderSnapshot struct {
	Client        domain.Client
	Description   string
	Services      []domain.ServiceItem
	Value         float64
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
}

// OrderUpdate is either a full snapshot or a partial change. Exactly one of
// the partial fields is used when Snapshot is nil.
type OrderUpdate struct {
	Snapshot      *OrderSnapshot
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
}

// NewOrder is the creation payload for POST /order/:laundryId.
type NewOrder struct {
	Client        domain.ClientRef
	Description   string
	Services      []domain.ServiceItem
	PaymentStatus domain.PaymentStatus
	OperatorID    string
}

// LaundryAPI is the laundry REST backend as consumed by the dashboard.
type LaundryAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.Session, error)
	Laundries(ctx context.Context) ([]domain.Laundry, error)
	ListOrders(ctx context.Context, laundryID string, filter domain.OrderFilter) (domain.OrderPage, error)
	CreateOrder(ctx context.Context, laundryID string, order NewOrder) (domain.Order, error)
	UpdateOrder(ctx context.Context, orderID string, update OrderUpdate) (domain.Order, error)
	ListServices(ctx context.Context, laundryID string) ([]domain.ServiceItem, error)
	// FindClientByPhone returns domain.ErrClientNotFound when the backend
	// answers 404.
	FindClientByPhone(ctx context.Context, laundryID, phone string) (domain.Client, error)
	// Report returns the raw decoded body of a reporting endpoint.
	Report(ctx context.Context, kind domain.ReportKind, laundryID string) (any, error)
}

// TokenSource yields the current bearer token, or "" before login.
type TokenSource interface {
	Token() string
}

// UnauthorizedFunc is invoked whenever any backend call answers 401.
type UnauthorizedFunc func(ctx context.Context)

// APIBinder produces a LaundryAPI bound to one session's token and 401 hook.
type APIBinder interface {
	Bind(tokens TokenSource, onUnauthorized UnauthorizedFunc) LaundryAPI
}
