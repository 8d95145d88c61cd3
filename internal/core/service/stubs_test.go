package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub key-value store
// ---------------------------------------------------------------------------

type stubKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	getErr   error
	deletes  [][]string
	setCalls int
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string][]byte)}
}

func (s *stubKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *stubKV) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubKV) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, keys)
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *stubKV) Ping(context.Context) error { return nil }

func (s *stubKV) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// ---------------------------------------------------------------------------
// Stub backend
// ---------------------------------------------------------------------------

// stubAPI records every call. Any method returning domain.ErrUnauthorized
// fires the bound 401 hook first, like the real client.
type stubAPI struct {
	mu    sync.Mutex
	calls []string

	session    domain.Session
	loginErr   error
	laundries  []domain.Laundry
	laundryErr error
	page       domain.OrderPage
	listErr    error
	created    []ports.NewOrder
	createErr  error
	updates    []ports.OrderUpdate
	updateIDs  []string
	updateErr  error
	services   []domain.ServiceItem
	clients    map[string]domain.Client
	reports    map[domain.ReportKind]any
	reportErr  map[domain.ReportKind]error
	entered    chan struct{}
	block      chan struct{}

	tokens []string
	hook   ports.UnauthorizedFunc
	source ports.TokenSource
}

func (a *stubAPI) Bind(tokens ports.TokenSource, onUnauthorized ports.UnauthorizedFunc) ports.LaundryAPI {
	a.source = tokens
	a.hook = onUnauthorized
	return a
}

func (a *stubAPI) record(ctx context.Context, call string, err error) error {
	a.mu.Lock()
	a.calls = append(a.calls, call)
	if a.source != nil {
		a.tokens = append(a.tokens, a.source.Token())
	}
	hook := a.hook
	a.mu.Unlock()
	if errors.Is(err, domain.ErrUnauthorized) && hook != nil {
		hook(ctx)
	}
	return err
}

func (a *stubAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *stubAPI) Login(ctx context.Context, _ domain.Credentials) (domain.Session, error) {
	if err := a.record(ctx, "login", a.loginErr); err != nil {
		return domain.Session{}, err
	}
	return a.session, nil
}

func (a *stubAPI) Laundries(ctx context.Context) ([]domain.Laundry, error) {
	if err := a.record(ctx, "laundries", a.laundryErr); err != nil {
		return nil, err
	}
	return a.laundries, nil
}

func (a *stubAPI) ListOrders(ctx context.Context, _ string, _ domain.OrderFilter) (domain.OrderPage, error) {
	if err := a.record(ctx, "list", a.listErr); err != nil {
		return domain.OrderPage{}, err
	}
	return a.page, nil
}

func (a *stubAPI) CreateOrder(ctx context.Context, _ string, order ports.NewOrder) (domain.Order, error) {
	if a.entered != nil {
		a.entered <- struct{}{}
	}
	if a.block != nil {
		<-a.block
	}
	if err := a.record(ctx, "create", a.createErr); err != nil {
		return domain.Order{}, err
	}
	a.mu.Lock()
	a.created = append(a.created, order)
	a.mu.Unlock()
	return domain.Order{ID: "o-new", OrderNumber: "ORD-100", Status: domain.StatusPending, PaymentStatus: order.PaymentStatus}, nil
}

func (a *stubAPI) UpdateOrder(ctx context.Context, orderID string, update ports.OrderUpdate) (domain.Order, error) {
	if err := a.record(ctx, "update", a.updateErr); err != nil {
		return domain.Order{}, err
	}
	a.mu.Lock()
	a.updateIDs = append(a.updateIDs, orderID)
	a.updates = append(a.updates, update)
	a.mu.Unlock()
	return domain.Order{ID: orderID, Status: update.Status}, nil
}

func (a *stubAPI) ListServices(ctx context.Context, _ string) ([]domain.ServiceItem, error) {
	if err := a.record(ctx, "services", nil); err != nil {
		return nil, err
	}
	return a.services, nil
}

func (a *stubAPI) FindClientByPhone(ctx context.Context, _ string, phone string) (domain.Client, error) {
	c, ok := a.clients[phone]
	var err error
	if !ok {
		err = domain.ErrClientNotFound
	}
	if err := a.record(ctx, "client", err); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

func (a *stubAPI) Report(ctx context.Context, kind domain.ReportKind, _ string) (any, error) {
	if err := a.record(ctx, "report:"+string(kind), a.reportErr[kind]); err != nil {
		return nil, err
	}
	return a.reports[kind], nil
}
