package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// TenantStore holds the active laundry and operator id of one workspace and
// persists them under their own key.
type TenantStore struct {
	mu    sync.RWMutex
	kv    ports.KeyValueStore
	key   string
	ttl   time.Duration
	state domain.TenantContext
}

// NewTenantStore returns an empty store persisted under key.
func NewTenantStore(kv ports.KeyValueStore, key string, ttl time.Duration) *TenantStore {
	return &TenantStore{kv: kv, key: key, ttl: ttl}
}

// Load restores the persisted tenant context. A missing or unreadable record
// leaves the store empty.
func (t *TenantStore) Load(ctx context.Context) error {
	raw, err := t.kv.Get(ctx, t.key)
	if errors.Is(err, ports.ErrKeyNotFound) {
		t.reset()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load tenant: %w: %w", domain.ErrSessionUnavailable, err)
	}

	var state domain.TenantContext
	if err := json.Unmarshal(raw, &state); err != nil {
		t.reset()
		return nil
	}

	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
	return nil
}

// SetLaundry binds the active laundry.
func (t *TenantStore) SetLaundry(ctx context.Context, l domain.Laundry) error {
	if l.ID == "" {
		return fmt.Errorf("%w: laundry id is required", domain.ErrValidation)
	}
	t.mu.Lock()
	t.state.Laundry = &l
	t.mu.Unlock()
	return t.persist(ctx)
}

// SetOperatorID records the acting user's id.
func (t *TenantStore) SetOperatorID(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: operator id is required", domain.ErrValidation)
	}
	t.mu.Lock()
	t.state.OperatorID = id
	t.mu.Unlock()
	return t.persist(ctx)
}

// Clear empties the store and removes its record.
func (t *TenantStore) Clear(ctx context.Context) error {
	t.reset()
	if err := t.kv.Delete(ctx, t.key); err != nil {
		return fmt.Errorf("clear tenant: %w", err)
	}
	return nil
}

// Context returns a copy of the tenant context.
func (t *TenantStore) Context() domain.TenantContext {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := domain.TenantContext{OperatorID: t.state.OperatorID}
	if t.state.Laundry != nil {
		l := *t.state.Laundry
		out.Laundry = &l
	}
	return out
}

// Laundry returns the active laundry, or nil.
func (t *TenantStore) Laundry() *domain.Laundry { return t.Context().Laundry }

// LaundryID returns the active laundry id, or "".
func (t *TenantStore) LaundryID() string { return t.Context().LaundryID() }

// OperatorID returns the acting user's id, or "".
func (t *TenantStore) OperatorID() string { return t.Context().OperatorID }

// Scope returns the parameter object passed to tenant-scoped services.
func (t *TenantStore) Scope() domain.TenantScope { return t.Context().Scope() }

func (t *TenantStore) reset() {
	t.mu.Lock()
	t.state = domain.TenantContext{}
	t.mu.Unlock()
}

func (t *TenantStore) persist(ctx context.Context) error {
	t.mu.RLock()
	raw, err := json.Marshal(t.state)
	t.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode tenant: %w", err)
	}
	if err := t.kv.Set(ctx, t.key, raw, t.ttl); err != nil {
		return fmt.Errorf("persist tenant: %w", err)
	}
	return nil
}
