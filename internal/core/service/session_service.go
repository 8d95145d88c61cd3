package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/ports"
)

// sessionRecord is the single persisted record holding token and user, so
// the session can never be half written.
type sessionRecord struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// SessionStore holds the authenticated principal of one workspace.
type SessionStore struct {
	mu      sync.RWMutex
	kv      ports.KeyValueStore
	key     string
	ttl     time.Duration
	tenant  *TenantStore
	api     ports.LaundryAPI
	current *domain.Session
	log     zerolog.Logger
}

// NewSessionStore returns an empty session persisted under key. The backend
// client is bound to this store: it reads the bearer token from it and calls
// ForceLogout on any 401.
func NewSessionStore(
	kv ports.KeyValueStore,
	key string,
	ttl time.Duration,
	tenant *TenantStore,
	binder ports.APIBinder,
	log zerolog.Logger,
) *SessionStore {
	s := &SessionStore{kv: kv, key: key, ttl: ttl, tenant: tenant, log: log}
	s.api = binder.Bind(s, s.ForceLogout)
	return s
}

// API returns the backend client bound to this session.
func (s *SessionStore) API() ports.LaundryAPI { return s.api }

// Initialize restores the persisted session without contacting the backend.
// If either the token or the user is missing the session stays empty.
func (s *SessionStore) Initialize(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ports.ErrKeyNotFound) {
		s.set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("initialize session: %w: %w", domain.ErrSessionUnavailable, err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("discarding unreadable session record")
		s.set(nil)
		return nil
	}
	if rec.Token == "" || rec.User == nil {
		s.set(nil)
		return nil
	}

	sess := domain.Session{Token: rec.Token, User: *rec.User}
	if !sess.Complete() {
		s.set(nil)
		return nil
	}
	s.set(&sess)
	return nil
}

// Login authenticates against the backend and persists the session. Backend
// errors are returned unchanged. Tenant population runs afterwards and its
// failure never fails the login.
func (s *SessionStore) Login(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	sess, err := s.api.Login(ctx, creds)
	if err != nil {
		s.log.Info().Err(err).Str("email", creds.Email).Msg("login rejected")
		return domain.Session{}, err
	}
	if !sess.Complete() {
		return domain.Session{}, fmt.Errorf("login: %w: response carries no token or user", domain.ErrInvalidCredentials)
	}

	user := sess.User
	raw, err := json.Marshal(sessionRecord{Token: sess.Token, User: &user})
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, raw, s.ttl); err != nil {
		return domain.Session{}, fmt.Errorf("login: persist session: %w", err)
	}
	s.set(&sess)

	s.log.Info().
		Str("username", sess.User.Username).
		Str("role", string(sess.Role())).
		Msg("session started")

	s.populateTenant(ctx, sess)
	return sess, nil
}

// populateTenant resolves the laundry once per login. The operator id is the
// principal's own id.
func (s *SessionStore) populateTenant(ctx context.Context, sess domain.Session) {
	if s.tenant == nil {
		return
	}
	if sess.User.ID != "" {
		if err := s.tenant.SetOperatorID(ctx, sess.User.ID); err != nil {
			s.log.Warn().Err(err).Msg("failed to store operator id")
		}
	}

	laundries, err := s.api.Laundries(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("username", sess.User.Username).Msg("tenant lookup failed, continuing without laundry")
		return
	}
	if len(laundries) == 0 {
		s.log.Warn().Str("username", sess.User.Username).Msg("no laundry bound to account")
		return
	}
	if err := s.tenant.SetLaundry(ctx, laundries[0]); err != nil {
		s.log.Warn().Err(err).Msg("failed to store laundry")
	}
}

// Logout clears the session and the tenant context, in memory and in the
// store, with a single delete.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.set(nil)
	keys := []string{s.key}
	if s.tenant != nil {
		s.tenant.reset()
		keys = append(keys, s.tenant.key)
	}
	if err := s.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// ForceLogout is the global 401 handler. It clears an active session once;
// further 401s on an already cleared session are no-ops.
func (s *SessionStore) ForceLogout(ctx context.Context) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	username := s.current.User.Username
	s.current = nil
	s.mu.Unlock()

	if err := s.Logout(context.WithoutCancel(ctx)); err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("forced logout could not clear stored session")
		return
	}
	s.log.Info().Str("username", username).Msg("session terminated by backend 401")
}

// Current returns the active session.
func (s *SessionStore) Current() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Session{}, false
	}
	return *s.current, true
}

// IsAuthenticated reports whether a session is active.
func (s *SessionStore) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Token satisfies ports.TokenSource.
func (s *SessionStore) Token() string {
	sess, _ := s.Current()
	return sess.Token
}

// Role returns the computed role of the active session, or "".
func (s *SessionStore) Role() domain.Role {
	sess, ok := s.Current()
	if !ok {
		return ""
	}
	return sess.Role()
}

func (s *SessionStore) set(sess *domain.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}
