package fakegateway

import (
	"context"
	"sync"

	"github.com/amirwmr/wp-front/identity"
	"github.com/amirwmr/wp-front/session"
	"github.com/amirwmr/wp-front/tokens"
)

var _ session.Gateway = (*FakeGateway)(nil)

// FakeGateway is an in-memory identity backend for tests. Verify
// resolves registered access tokens; Refresh rotates registered refresh
// tokens exactly once and rejects reuse, matching backends that
// invalidate a refresh token on rotation.
type FakeGateway struct {
	lock      sync.Mutex
	profiles  map[string]*identity.Profile
	rotations map[string]tokens.Pair
	used      map[string]bool

	VerifyCalls  int
	RefreshCalls int
	LogoutCalls  []string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		profiles:  make(map[string]*identity.Profile),
		rotations: make(map[string]tokens.Pair),
		used:      make(map[string]bool),
	}
}

// RegisterProfile makes accessToken verify to profile.
func (g *FakeGateway) RegisterProfile(accessToken string, profile *identity.Profile) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.profiles[accessToken] = profile
}

// RegisterRotation makes refreshToken redeemable once for pair.
func (g *FakeGateway) RegisterRotation(refreshToken string, pair tokens.Pair) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.rotations[refreshToken] = pair
}

func (g *FakeGateway) VerifyIdentity(_ context.Context, accessToken string) *identity.Profile {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.VerifyCalls++
	return g.profiles[accessToken]
}

func (g *FakeGateway) Refresh(_ context.Context, refreshToken string) *tokens.Pair {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.RefreshCalls++
	if g.used[refreshToken] {
		return nil
	}
	pair, ok := g.rotations[refreshToken]
	if !ok {
		return nil
	}
	g.used[refreshToken] = true
	return &pair
}

// Logout records the best-effort backend notification.
func (g *FakeGateway) Logout(_ context.Context, accessToken string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.LogoutCalls = append(g.LogoutCalls, accessToken)
}
