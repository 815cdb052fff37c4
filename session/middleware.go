package session

import (
	"context"
	"net/http"

	"github.com/amirwmr/wp-front/tokens"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// contextKeySession stores the resolved *session.Context
const contextKeySession ContextKey = "session"

// NewRequestContext returns a copy of parent carrying sc.
func NewRequestContext(parent context.Context, sc *Context) context.Context {
	return context.WithValue(parent, contextKeySession, sc)
}

// FromContext retrieves the session Context resolved for this request.
// Requests that never passed through the resolver middleware get an
// anonymous Context rather than nil, so callers can always ask
// "who is the current user" safely.
func FromContext(ctx context.Context) *Context {
	if sc, ok := ctx.Value(contextKeySession).(*Context); ok {
		return sc
	}
	return &Context{}
}

// Middleware runs the resolver exactly once per inbound request and
// stashes the result on the request context. Downstream handlers that
// call FromContext any number of times all observe the same resolved
// Context; no repeated verify or refresh calls happen.
func Middleware(resolver *Resolver, newStore func(http.ResponseWriter, *http.Request) tokens.Store) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store := newStore(w, r)
			sc := resolver.Resolve(r.Context(), store)
			next(w, r.WithContext(NewRequestContext(r.Context(), sc)))
		}
	}
}
