package session

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/amirwmr/wp-front/tokens"
)

// Resolver derives the authenticated identity for one inbound request
// from whatever tokens its cookie jar holds, performing at most one
// refresh attempt. Resolution failure is never fatal: an anonymous
// Context (User == nil) is a valid, expected outcome that downstream
// authorization acts on.
type Resolver struct {
	gateway    Gateway
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// ResolverOption defines a function type to modify the Resolver instance.
type ResolverOption func(*Resolver)

// WithTokenTTLs overrides the cookie lifetimes used when the resolver
// persists a refreshed pair.
func WithTokenTTLs(accessTTL, refreshTTL time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.accessTTL = accessTTL
		r.refreshTTL = refreshTTL
	}
}

// NewResolver initializes a Resolver with its required gateway dependency.
func NewResolver(gateway Gateway, options ...ResolverOption) (*Resolver, error) {
	if gateway == nil {
		return nil, errors.New("[NewResolver] gateway is required")
	}
	r := &Resolver{
		gateway:    gateway,
		accessTTL:  tokens.DefaultAccessTTL,
		refreshTTL: tokens.DefaultRefreshTTL,
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

// Resolve computes the session Context for the current request.
//
// Fast path: a valid access token verifies directly and no refresh is
// attempted. An access token that fails verification with no refresh
// token alongside it is orphaned and erased. Otherwise a single refresh
// is attempted: success supersedes the stored pair in full and the new
// access token is verified once to populate the user; failure erases
// everything and the request proceeds anonymous.
//
// At most one refresh call and two verify calls happen per request.
func (r *Resolver) Resolve(ctx context.Context, store tokens.Store) *Context {
	access, refresh := store.Read()
	sc := &Context{AccessToken: access, RefreshToken: refresh}

	if access != "" {
		if profile := r.gateway.VerifyIdentity(ctx, access); profile != nil {
			sc.User = profile
			return sc
		}
	}

	if access != "" && refresh == "" {
		// Orphaned access token: unusable and nothing to renew it with.
		store.Erase()
		sc.AccessToken = ""
		return sc
	}

	if refresh != "" {
		pair := r.gateway.Refresh(ctx, refresh)
		if pair == nil {
			store.Erase()
			sc.Clear()
			return sc
		}
		store.Write(*pair, tokens.WriteOptions{AccessTTL: r.accessTTL, RefreshTTL: r.refreshTTL})
		sc.AccessToken = pair.Access
		sc.RefreshToken = pair.Refresh
		sc.User = r.gateway.VerifyIdentity(ctx, pair.Access)
	}

	return sc
}
