package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
)

func TestSessionCodec_RoundTrip(t *testing.T) {
	codec := NewSessionCodec("secret", time.Hour, false)
	token, err := codec.Sign("w-1", time.Now())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := codec.Parse(token)
	if err != nil || id != "w-1" {
		t.Fatalf("expected w-1, got %q, %v", id, err)
	}

	if _, err := NewSessionCodec("other", time.Hour, false).Parse(token); err == nil {
		t.Error("a token signed with another secret must be rejected")
	}
	expired, _ := codec.Sign("w-1", time.Now().Add(-2*time.Hour))
	if _, err := codec.Parse(expired); err == nil {
		t.Error("an expired token must be rejected")
	}
}

func TestSession_RestoresWorkspaceFromCookie(t *testing.T) {
	backend := &stubBackend{session: sessionAs("admin", "multi")}
	f := newFactory(backend)
	id := loggedIn(t, f)
	codec := NewSessionCodec("secret", time.Hour, false)
	token, _ := codec.Sign(id, time.Now())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(codec, f, zerolog.Nop())(func(c echo.Context) error {
		ws := Workspace(c)
		if ws == nil || ws.ID != id {
			t.Fatalf("expected workspace %s in context", id)
		}
		if ws.State() != guard.StateAuthenticated || ws.Role() != domain.RoleMultiAdmin {
			t.Fatalf("expected authenticated MULTI_ADMIN, got %v %q", ws.State(), ws.Role())
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_InvalidTokenIsAnonymous(t *testing.T) {
	f := newFactory(&stubBackend{})
	codec := NewSessionCodec("secret", time.Hour, false)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(codec, f, zerolog.Nop())(func(c echo.Context) error {
		if Workspace(c).State() != guard.StateAnonymous {
			t.Fatal("expected anonymous workspace")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSession_BackendUnauthorizedClearsCookie(t *testing.T) {
	backend := &stubBackend{session: sessionAs("operator", "")}
	f := newFactory(backend)
	id := loggedIn(t, f)
	codec := NewSessionCodec("secret", time.Hour, false)
	token, _ := codec.Sign(id, time.Now())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	backend.listErr = domain.ErrUnauthorized
	handler := Session(codec, f, zerolog.Nop())(func(c echo.Context) error {
		_, err := Workspace(c).Orders().ListOrders(c.Request().Context(), domain.OrderFilter{})
		return err
	})
	if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	cleared := false
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the session cookie to be cleared")
	}

	ws, err := f.Restore(req.Context(), id)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if ws.State() != guard.StateAnonymous {
		t.Error("the stored session must be gone after a 401")
	}
}
