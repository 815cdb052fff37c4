// Package identity is the thin RPC client for the external identity
// backend. Each operation is a single network call with no internal
// retry; VerifyIdentity and Refresh normalize every failure to nil so
// the server pipeline can always proceed unauthenticated instead of
// failing the request.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/amirwmr/wp-front/tokens"
)

// Backend routes consumed by this client.
const (
	routeMe         = "/identity/me"
	routeRefresh    = "/identity/refresh"
	routeOTPRequest = "/identity/otp/request"
	routeOTPVerify  = "/identity/otp/verify"
	routeLogout     = "/identity/logout"
)

const defaultTimeout = 10 * time.Second

// Gateway calls the external identity backend. It never touches a token
// store itself; it is a pure request/response boundary so behavior is
// testable by pointing it at a canned backend.
type Gateway struct {
	baseURL string
	client  *http.Client
}

// GatewayOption defines a function type to modify the Gateway instance.
type GatewayOption func(*Gateway)

// WithHTTPClient overrides the underlying HTTP client (primarily for
// testing with short timeouts or canned transports).
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) {
		g.client = c
	}
}

// NewGateway creates a client for the identity backend rooted at baseURL.
func NewGateway(baseURL string, options ...GatewayOption) *Gateway {
	g := &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

// VerifyIdentity checks whether accessToken is currently valid and
// returns the associated profile. Any non-2xx response or transport
// failure yields nil; it never returns an error.
func (g *Gateway) VerifyIdentity(ctx context.Context, accessToken string) *Profile {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+routeMe, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := g.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("identity verify transport failure")
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil
	}

	var profile Profile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		log.Warn().Err(err).Msg("identity verify returned an undecodable profile")
		return nil
	}
	return &profile
}

// Refresh exchanges refreshToken for a new token pair. A nil result is
// definitive: the refresh token is no longer usable and the caller must
// treat the session as terminated rather than retry.
func (g *Gateway) Refresh(ctx context.Context, refreshToken string) *tokens.Pair {
	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return nil
	}
	res, err := g.post(ctx, routeRefresh, body)
	if err != nil {
		log.Debug().Err(err).Msg("identity refresh transport failure")
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil
	}

	var pair tokens.Pair
	if err := json.NewDecoder(res.Body).Decode(&pair); err != nil || !pair.Complete() {
		log.Warn().Err(err).Msg("identity refresh returned an incomplete pair")
		return nil
	}
	return &pair
}

// OTPRequestResult is the backend's acknowledgement of an OTP request.
// DebugCode is only populated by non-production backends.
type OTPRequestResult struct {
	Detail    string `json:"detail,omitempty"`
	DebugCode string `json:"debug_code,omitempty"`
}

// VerifyResult is the credential-exchange output: a fresh token pair
// plus the authenticated profile.
type VerifyResult struct {
	tokens.Pair
	User *Profile `json:"user,omitempty"`
}

// RequestOTP asks the backend to send a one-time code to phone. Unlike
// the token operations, credential-exchange errors are returned because
// callers surface them to users.
func (g *Gateway) RequestOTP(ctx context.Context, phone string, actor RoleType) (*OTPRequestResult, error) {
	body, err := json.Marshal(map[string]string{"phone": phone, "actor": string(actor)})
	if err != nil {
		return nil, errors.Wrap(err, "[Gateway RequestOTP] marshal")
	}
	res, err := g.post(ctx, routeOTPRequest, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Gateway RequestOTP] request")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("[Gateway RequestOTP] backend returned %d", res.StatusCode)
	}

	var result OTPRequestResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "[Gateway RequestOTP] decode")
	}
	return &result, nil
}

// VerifyOTP exchanges phone+code for a token pair and profile.
func (g *Gateway) VerifyOTP(ctx context.Context, phone, code string, actor RoleType) (*VerifyResult, error) {
	body, err := json.Marshal(map[string]string{"phone": phone, "code": code, "actor": string(actor)})
	if err != nil {
		return nil, errors.Wrap(err, "[Gateway VerifyOTP] marshal")
	}
	res, err := g.post(ctx, routeOTPVerify, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Gateway VerifyOTP] request")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("[Gateway VerifyOTP] backend returned %d", res.StatusCode)
	}

	var result VerifyResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "[Gateway VerifyOTP] decode")
	}
	if !result.Complete() {
		return nil, errors.New("[Gateway VerifyOTP] backend returned an incomplete pair")
	}
	return &result, nil
}

// Logout notifies the backend that the session is over. Best-effort:
// failures are logged and swallowed, session teardown does not depend
// on the backend acknowledging.
func (g *Gateway) Logout(ctx context.Context, accessToken string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+routeLogout, nil)
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	res, err := g.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("identity logout notification failed")
		return
	}
	io.Copy(io.Discard, res.Body) //nolint:errcheck
	res.Body.Close()
}

func (g *Gateway) post(ctx context.Context, route string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+route, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.client.Do(req)
}
