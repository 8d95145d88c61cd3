package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// SessionKey is the store key of a workspace's session record.
func SessionKey(id string) string { return "session:" + id }

// TenantKey is the store key of a workspace's tenant record.
func TenantKey(id string) string { return "tenant:" + id }

// Workspace is one user's dashboard state: a session, its tenant context and
// the services scoped to them. A browser cookie or a CLI profile maps to
// exactly one workspace.
type Workspace struct {
	ID      string
	Session *SessionStore
	Tenant  *TenantStore

	submit     *SubmitGuard
	log        zerolog.Logger
	restoreErr error
}

// API returns the backend client bound to the workspace session.
func (w *Workspace) API() ports.LaundryAPI { return w.Session.API() }

// Restore reloads session and tenant from the store. Failures leave the
// workspace in the loading state.
func (w *Workspace) Restore(ctx context.Context) error {
	w.restoreErr = nil
	if err := w.Session.Initialize(ctx); err != nil {
		w.restoreErr = err
		return err
	}
	if err := w.Tenant.Load(ctx); err != nil {
		w.restoreErr = err
		return err
	}
	return nil
}

// State maps restoration progress to the guard state.
func (w *Workspace) State() guard.State {
	switch {
	case errors.Is(w.restoreErr, domain.ErrSessionUnavailable):
		return guard.StateLoading
	case w.Session.IsAuthenticated():
		return guard.StateAuthenticated
	default:
		return guard.StateAnonymous
	}
}

// Role returns the computed role of the active session.
func (w *Workspace) Role() domain.Role { return w.Session.Role() }

// Orders returns an order manager scoped to the current tenant.
func (w *Workspace) Orders() *OrderManager {
	return NewOrderManager(w.API(), w.Tenant.Scope(), w.log, WithSubmitGuard(w.submit, w.ID))
}

// Reports returns a report loader scoped to the current tenant.
func (w *Workspace) Reports() *ReportLoader {
	return NewReportLoader(w.API(), w.Tenant.Scope(), w.log)
}

// Laundries lists every laundry the account can manage.
func (w *Workspace) Laundries(ctx context.Context) ([]domain.Laundry, error) {
	return w.API().Laundries(ctx)
}

// WorkspaceFactory builds workspaces over a shared store and backend.
type WorkspaceFactory struct {
	kv     ports.KeyValueStore
	binder ports.APIBinder
	ttl    time.Duration
	submit *SubmitGuard
	log    zerolog.Logger
}

func NewWorkspaceFactory(kv ports.KeyValueStore, binder ports.APIBinder, ttl time.Duration, log zerolog.Logger) *WorkspaceFactory {
	return &WorkspaceFactory{kv: kv, binder: binder, ttl: ttl, submit: NewSubmitGuard(), log: log}
}

// NewID returns a fresh workspace id.
func (f *WorkspaceFactory) NewID() string { return uuid.NewString() }

// Open returns an empty workspace for id without touching the store.
func (f *WorkspaceFactory) Open(id string) *Workspace {
	log := f.log.With().Str("workspace", id).Logger()
	tenant := NewTenantStore(f.kv, TenantKey(id), f.ttl)
	return &Workspace{
		ID:      id,
		Session: NewSessionStore(f.kv, SessionKey(id), f.ttl, tenant, f.binder, log),
		Tenant:  tenant,
		submit:  f.submit,
		log:     log,
	}
}

// Restore opens id and reloads its persisted state. The workspace is
// returned even on error so callers can report the loading state.
func (f *WorkspaceFactory) Restore(ctx context.Context, id string) (*Workspace, error) {
	w := f.Open(id)
	return w, w.Restore(ctx)
}

// Anonymous returns a backend client carrying no token, for public pages.
func (f *WorkspaceFactory) Anonymous() ports.LaundryAPI {
	return f.binder.Bind(noToken{}, nil)
}

type noToken struct{}

func (noToken) Token() string { return "" }
