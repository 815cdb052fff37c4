package client

import (
	"context"

	"github.com/amirwmr/wp-front/identity"
	"github.com/amirwmr/wp-front/tokens"
)

// Backend routes the auth flows dispatch against.
const (
	routeOTPRequest = "/identity/otp/request"
	routeOTPVerify  = "/identity/otp/verify"
	routeMe         = "/identity/me"
)

// Auth implements the client-side authentication flows on top of the
// dispatcher: OTP login, profile fetch, refresh, and logout. Successful
// login persists the issued pair through the bridge (cookies are the
// source of truth) before mirroring it into the cache.
type Auth struct {
	dispatcher *Dispatcher
	bridge     *Bridge
	cache      *SessionCache
}

func NewAuth(dispatcher *Dispatcher, bridge *Bridge, cache *SessionCache) *Auth {
	return &Auth{dispatcher: dispatcher, bridge: bridge, cache: cache}
}

// RequestOTP asks the backend to send a login code to phone.
func (a *Auth) RequestOTP(ctx context.Context, phone string, actor identity.RoleType) (*identity.OTPRequestResult, error) {
	var result identity.OTPRequestResult
	err := a.dispatcher.Dispatch(ctx, routeOTPRequest, Options{
		Body: map[string]string{"phone": phone, "actor": string(actor)},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyOTP exchanges phone+code for a session. The returned pair is
// persisted through the bridge, the access token cached, and the
// profile (when the backend includes one) becomes the current user.
func (a *Auth) VerifyOTP(ctx context.Context, phone, code string, actor identity.RoleType) (*identity.VerifyResult, error) {
	var result identity.VerifyResult
	err := a.dispatcher.Dispatch(ctx, routeOTPVerify, Options{
		Body: map[string]string{"phone": phone, "code": code, "actor": string(actor)},
	}, &result)
	if err != nil {
		return nil, err
	}

	pair := tokens.Pair{Access: result.Access, Refresh: result.Refresh}
	if err := a.bridge.Persist(ctx, pair); err != nil {
		return nil, err
	}
	a.cache.SetAccessToken(pair.Access)
	if result.User != nil {
		a.cache.SetUser(result.User)
	}
	return &result, nil
}

// FetchMe refreshes the cached profile from the backend.
func (a *Auth) FetchMe(ctx context.Context) (*identity.Profile, error) {
	var profile identity.Profile
	err := a.dispatcher.Dispatch(ctx, routeMe, Options{RequiresAuth: true}, &profile)
	if err != nil {
		return nil, err
	}
	a.cache.SetUser(&profile)
	return &profile, nil
}

// RefreshSession rotates the pair through the bridge outside of any
// 401 handling (e.g., proactively before a long-lived upload).
func (a *Auth) RefreshSession(ctx context.Context) (*tokens.Pair, error) {
	pair, err := a.bridge.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	a.cache.SetAccessToken(pair.Access)
	return pair, nil
}

// Logout clears the session everywhere: bridge cookies (best-effort)
// and the local cache. It never fails.
func (a *Auth) Logout(ctx context.Context) {
	a.bridge.Clear(ctx)
	a.cache.Clear()
}
