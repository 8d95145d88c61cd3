package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lavanda/laundry-dashboard/internal/api/middleware"
	"github.com/lavanda/laundry-dashboard/internal/core/domain"
	"github.com/lavanda/laundry-dashboard/internal/core/guard"
	"github.com/lavanda/laundry-dashboard/internal/pkg/metrics"
)

// SessionIssuer sets and clears the browser session cookie.
type SessionIssuer interface {
	Issue(c echo.Context, workspaceID string) (string, error)
	Clear(c echo.Context)
}

type AuthHandler struct {
	cookies SessionIssuer
	log     zerolog.Logger
}

func NewAuthHandler(cookies SessionIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{cookies: cookies, log: log}
}

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Token         string          `json:"token,omitempty"`
	User          *domain.User    `json:"user,omitempty"`
	Role          domain.Role     `json:"role,omitempty"`
	Laundry       *domain.Laundry `json:"laundry,omitempty"`
	Home          string          `json:"home,omitempty"`
}

// Login authenticates against the laundry backend and starts a session.
//
// @Summary      Login
// @Description  On success the session cookie is set; the token in the body is the same signed value for non-browser clients.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Credentials  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ws := middleware.Workspace(c)
	if ws == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	var creds domain.Credentials
	if err := bindValid(c, &creds); err != nil {
		return err
	}

	sess, err := ws.Session.Login(c.Request().Context(), creds)
	if err != nil {
		metrics.SessionsTotal.WithLabelValues("login_failed").Inc()
		return err
	}
	token, err := h.cookies.Issue(c, ws.ID)
	if err != nil {
		return err
	}
	metrics.SessionsTotal.WithLabelValues("login").Inc()

	user := sess.User
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		Token:         token,
		User:          &user,
		Role:          sess.Role(),
		Laundry:       ws.Tenant.Laundry(),
		Home:          guard.HomeFor(sess.Role(), guard.DefaultPublicRoute),
	})
}

// Logout clears the session and tenant context.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.cookies.Clear(c)
	ws := middleware.Workspace(c)
	if ws == nil || !ws.Session.IsAuthenticated() {
		return c.NoContent(http.StatusNoContent)
	}
	if err := ws.Session.Logout(c.Request().Context()); err != nil {
		h.log.Error().Err(err).Str("workspace", ws.ID).Msg("logout could not clear stored session")
		return err
	}
	metrics.SessionsTotal.WithLabelValues("logout").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Session reports the caller's session without contacting the backend.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      503  {object}  map[string]string
// @Router       /api/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	ws := middleware.Workspace(c)
	if ws == nil {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	if ws.State() == guard.StateLoading {
		return domain.ErrSessionUnavailable
	}
	sess, ok := ws.Session.Current()
	if !ok {
		return c.JSON(http.StatusOK, sessionResponse{})
	}
	user := sess.User
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          &user,
		Role:          sess.Role(),
		Laundry:       ws.Tenant.Laundry(),
		Home:          guard.HomeFor(sess.Role(), guard.DefaultPublicRoute),
	})
}
