package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
	"github.com/lavanda/laundry-dashboard/internal/infrastructure/db/memory"
)

// stubBackend answers login with a fixed session and fails ListOrders with
// listErr, firing the bound 401 hook like the real client.
type stubBackend struct {
	session domain.Session
	listErr error
	hook    ports.UnauthorizedFunc
}

func (b *stubBackend) Bind(_ ports.TokenSource, hook ports.UnauthorizedFunc) ports.LaundryAPI {
	b.hook = hook
	return b
}

func (b *stubBackend) Login(context.Context, domain.Credentials) (domain.Session, error) {
	return b.session, nil
}

func (b *stubBackend) Laundries(context.Context) ([]domain.Laundry, error) {
	return []domain.Laundry{{ID: "l-1", Name: "Lavanda"}}, nil
}

func (b *stubBackend) ListOrders(ctx context.Context, _ string, _ domain.OrderFilter) (domain.OrderPage, error) {
	if b.listErr != nil {
		if b.hook != nil {
			b.hook(ctx)
		}
		return domain.OrderPage{}, b.listErr
	}
	return domain.OrderPage{}, nil
}

func (b *stubBackend) CreateOrder(context.Context, string, ports.NewOrder) (domain.Order, error) {
	return domain.Order{}, nil
}

func (b *stubBackend) UpdateOrder(context.Context, string, ports.OrderUpdate) (domain.Order, error) {
	return domain.Order{}, nil
}

func (b *stubBackend) ListServices(context.Context, string) ([]domain.ServiceItem, error) {
	return nil, nil
}

func (b *stubBackend) FindClientByPhone(context.Context, string, string) (domain.Client, error) {
	return domain.Client{}, domain.ErrClientNotFound
}

func (b *stubBackend) Report(context.Context, domain.ReportKind, string) (any, error) {
	return nil, nil
}

func newFactory(backend *stubBackend) *service.WorkspaceFactory {
	return service.NewWorkspaceFactory(memory.NewKVStore(), backend, time.Hour, zerolog.Nop())
}

func sessionAs(rawRole, subtype string) domain.Session {
	return domain.Session{
		Token: "tok-1",
		User:  domain.User{ID: "u-1", Username: "ana", RawRole: rawRole, AdminSubtype: subtype},
	}
}

// loggedIn creates a workspace with a persisted session and returns its id.
func loggedIn(t *testing.T, f *service.WorkspaceFactory) string {
	t.Helper()
	id := f.NewID()
	ws := f.Open(id)
	if _, err := ws.Session.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	return id
}
