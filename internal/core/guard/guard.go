// Package guard decides whether a requested screen is rendered, replaced by a
// placeholder, or redirected. Decisions are pure; the HTTP layer applies them.
//
// Gating here is a UX convenience. The backend must enforce authorization on
// every call; nothing in this package is a security boundary on its own.
package guard

import (
	"net/url"

	"github.com/lavanda/laundry-dashboard/internal/core/domain"
)

// Screen paths.
const (
	LoginPath          = "/login"
	SuperAdminHome     = "/dashboard"
	MultiAdminHome     = "/multi-admin"
	SingleAdminHome    = "/admin/dashboard"
	OperatorHome       = "/admin/orders"
	DefaultPublicRoute = SingleAdminHome
)

// State is the progress of session restoration.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

// Outcome is what the caller must do with the request.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeRedirect
	OutcomeForbidden
	OutcomeRender
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeForbidden:
		return "forbidden"
	case OutcomeRender:
		return "render"
	}
	return "unknown"
}

// Decision is the result of a guard evaluation. Location is set for redirects;
// From carries the originally requested location when redirecting to login.
type Decision struct {
	Outcome  Outcome
	Location string
	From     string
}

// Protected gates a screen that needs an authenticated session and,
// optionally, membership in allowed. An empty allowed list admits every role.
func Protected(state State, role domain.Role, requested string, allowed ...domain.Role) Decision {
	switch state {
	case StateLoading:
		return Decision{Outcome: OutcomeLoading}
	case StateAuthenticated:
	default:
		return Decision{Outcome: OutcomeRedirect, Location: LoginLocation(requested), From: requested}
	}

	if len(allowed) == 0 {
		return Decision{Outcome: OutcomeRender}
	}
	for _, r := range allowed {
		if r == role {
			return Decision{Outcome: OutcomeRender}
		}
	}
	return Decision{Outcome: OutcomeForbidden}
}

// Public gates a page meant for anonymous users, such as login. An
// authenticated session is sent to its role's home, or to redirectTo when the
// role has none.
func Public(state State, role domain.Role, redirectTo string) Decision {
	switch state {
	case StateLoading:
		return Decision{Outcome: OutcomeLoading}
	case StateAuthenticated:
		return Decision{Outcome: OutcomeRedirect, Location: HomeFor(role, redirectTo)}
	default:
		return Decision{Outcome: OutcomeRender}
	}
}

// HomeFor returns the landing screen of role, or fallback for any other value.
func HomeFor(role domain.Role, fallback string) string {
	switch role {
	case domain.RoleSuperAdmin:
		return SuperAdminHome
	case domain.RoleMultiAdmin:
		return MultiAdminHome
	case domain.RoleSingleAdmin:
		return SingleAdminHome
	case domain.RoleOperator:
		return OperatorHome
	}
	if fallback == "" {
		return DefaultPublicRoute
	}
	return fallback
}

// LoginLocation builds the login redirect, capturing requested so the login
// screen can offer to return there.
func LoginLocation(requested string) string {
	if requested == "" || requested == LoginPath {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(requested)
}
