package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/core/service"
	"github.com/lavanda/laundry-dashboard/internal/pkg/metrics"
)

const (
	// CookieName carries the signed workspace id of a browser.
	CookieName = "laundry_session"

	workspaceKey = "workspace"
)

// WorkspaceSource opens and restores workspaces by id.
type WorkspaceSource interface {
	NewID() string
	Open(id string) *service.Workspace
	Restore(ctx context.Context, id string) (*service.Workspace, error)
}

// SessionCodec signs workspace ids into HS256 tokens. The token holds no
// backend credentials; those stay in the record store.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionCodec(secret string, ttl time.Duration, secure bool) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Sign returns a token for workspace id.
func (s *SessionCodec) Sign(id string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

// Parse validates token and returns the workspace id it carries.
func (s *SessionCodec) Parse(token string) (string, error) {
	var claims jwt.RegisteredClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("invalid session token: no subject")
	}
	return claims.Subject, nil
}

// Issue sets the session cookie for workspace id and returns the token.
func (s *SessionCodec) Issue(c echo.Context, id string) (string, error) {
	now := time.Now()
	token, err := s.Sign(id, now)
	if err != nil {
		return "", err
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

// Clear expires the session cookie.
func (s *SessionCodec) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionToken reads the token from the cookie, or from a bearer header for
// non-browser clients.
func sessionToken(c echo.Context) string {
	if ck, err := c.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// Session restores the caller's workspace and stores it in the context. A
// missing or invalid token yields a fresh anonymous workspace. When a backend
// 401 ends the session during the request, the cookie is cleared.
func Session(codec *SessionCodec, source WorkspaceSource, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws := restore(c, codec, source, log)
			c.Set(workspaceKey, ws)

			wasAuthenticated := ws.State() == guard.StateAuthenticated
			herr := next(c)
			if wasAuthenticated && !ws.Session.IsAuthenticated() && c.Path() != "/auth/logout" {
				metrics.SessionsTotal.WithLabelValues("expired").Inc()
				if !c.Response().Committed {
					codec.Clear(c)
				}
			}
			return herr
		}
	}
}

func restore(c echo.Context, codec *SessionCodec, source WorkspaceSource, log zerolog.Logger) *service.Workspace {
	token := sessionToken(c)
	if token == "" {
		return source.Open(source.NewID())
	}
	id, err := codec.Parse(token)
	if err != nil {
		log.Debug().Err(err).Msg("discarding invalid session token")
		codec.Clear(c)
		return source.Open(source.NewID())
	}
	ws, err := source.Restore(c.Request().Context(), id)
	if err != nil {
		log.Warn().Err(err).Str("workspace", id).Msg("session restore failed")
	}
	return ws
}

// Workspace returns the workspace stored by Session, or nil.
func Workspace(c echo.Context) *service.Workspace {
	ws, _ := c.Get(workspaceKey).(*service.Workspace)
	return ws
}
