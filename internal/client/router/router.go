// Package router maps client paths to required roles and decides, on every
// navigation, whether the current session may enter.
package router

import (
	"context"
	"strings"
	"sync"

	"github.com/nayidisha/nayidisha-client/internal/client/models"
	"github.com/nayidisha/nayidisha-client/internal/client/session"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	PathHome         = "/"
	PathLogin        = "/login"
	PathRegister     = "/register"
	PathVerifyEmail  = "/verify-email"
	PathUnauthorized = "/unauthorized"
	PathAdmin        = "/admin"
	PathUser         = "/user"
)

// Decision is the outcome of a guard evaluation. To is the path actually
// entered: the requested one when Authorized, the redirect target otherwise.
type Decision struct {
	Authorized bool
	To         string
}

func (d Decision) Redirected() bool {
	return !d.Authorized
}

// Guard admits a session holding at least one of Required.
type Guard struct {
	Required []string
}

func (g Guard) Evaluate(roles []string) Decision {
	if session.HasAnyRole(g.Required, roles) {
		return Decision{Authorized: true}
	}
	return Decision{To: PathUnauthorized}
}

// Route is a path prefix with an optional guard. A nil Guard is public.
type Route struct {
	Prefix string
	Guard  *Guard
}

// DefaultRoutes is the client's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Prefix: PathHome},
		{Prefix: PathLogin},
		{Prefix: PathRegister},
		{Prefix: PathVerifyEmail},
		{Prefix: PathUnauthorized},
		{Prefix: PathAdmin, Guard: &Guard{Required: []string{models.RoleAdmin}}},
		{Prefix: PathUser, Guard: &Guard{Required: []string{models.RoleUser}}},
	}
}

// HomeFor picks the landing path after sign-in.
func HomeFor(roles []string) string {
	switch {
	case session.HasAnyRole([]string{models.RoleAdmin}, roles):
		return PathAdmin
	case session.HasAnyRole([]string{models.RoleUser}, roles):
		return PathUser
	default:
		return PathUnauthorized
	}
}

// Navigator accepts navigation requests. The HTTP adapter uses it to send
// the user to sign-in after a 401.
type Navigator interface {
	Navigate(ctx context.Context, path string) Decision
}

type RoleSource interface {
	Roles(ctx context.Context) []string
}

// Router keeps the current location and its history. Guards are evaluated
// against the session on every Navigate; nothing is cached.
type Router struct {
	routes []Route
	roles  RoleSource
	log    logging.Logger

	mu      sync.Mutex
	current string
	history []string
}

var _ Navigator = (*Router)(nil)

func New(roles RoleSource, log logging.Logger) *Router {
	return &Router{
		routes:  DefaultRoutes(),
		roles:   roles,
		log:     log,
		current: PathHome,
		history: []string{PathHome},
	}
}

// Match returns the most specific route for path.
func (r *Router) Match(path string) (Route, bool) {
	var (
		best  Route
		found bool
	)
	for _, rt := range r.routes {
		if !matches(rt.Prefix, path) {
			continue
		}
		if !found || len(rt.Prefix) > len(best.Prefix) {
			best, found = rt, true
		}
	}
	return best, found
}

func matches(prefix, path string) bool {
	if prefix == PathHome {
		return path == PathHome
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Authorize evaluates path without moving.
func (r *Router) Authorize(ctx context.Context, path string) Decision {
	rt, ok := r.Match(path)
	if !ok {
		return Decision{To: PathHome}
	}
	if rt.Guard == nil {
		return Decision{Authorized: true, To: path}
	}
	d := rt.Guard.Evaluate(r.roles.Roles(ctx))
	if d.Authorized {
		d.To = path
	}
	return d
}

// Navigate moves to path, or to the redirect target if the guard refuses.
func (r *Router) Navigate(ctx context.Context, path string) Decision {
	d := r.Authorize(ctx, path)
	if d.Redirected() {
		r.log.Info(ctx, "navigation redirected", "from", path, "to", d.To)
	}

	r.mu.Lock()
	r.current = d.To
	r.history = append(r.history, d.To)
	r.mu.Unlock()
	return d
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// OnUnauthenticated is the hook handed to the HTTP adapter.
func (r *Router) OnUnauthenticated(ctx context.Context) {
	r.Navigate(ctx, PathLogin)
}
