package session

import (
	"context"

	"github.com/amirwmr/wp-front/identity"
	"github.com/amirwmr/wp-front/tokens"
)

// Context is the canonical (user, access, refresh) triple for one
// inbound request. It is created fresh at the start of every request
// from whatever cookies are present, owned exclusively by that
// request's pipeline, and never persisted beyond it.
type Context struct {
	User         *identity.Profile
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the request carries a verified identity.
func (c *Context) Authenticated() bool {
	return c != nil && c.User != nil
}

// Clear drops the identity and both tokens from the request context.
func (c *Context) Clear() {
	c.User = nil
	c.AccessToken = ""
	c.RefreshToken = ""
}

// Gateway is the slice of the identity backend client the resolver
// needs. Both operations normalize failure to nil.
type Gateway interface {
	VerifyIdentity(ctx context.Context, accessToken string) *identity.Profile
	Refresh(ctx context.Context, refreshToken string) *tokens.Pair
}
