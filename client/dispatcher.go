// Package client is the runtime-side half of the session core: an
// authenticated request dispatcher, the shared session cache, and the
// bridge client that delegates cookie mutation to the server context.
//
// The refresh cookie is not readable from the client runtime, so a 401
// cannot be recovered by calling the identity backend directly; the
// dispatcher delegates through the session bridge, the only holder of
// the refresh token. That cross-context hop is the correctness-critical
// seam of the whole system.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/amirwmr/wp-front/internal/utils"
	"github.com/amirwmr/wp-front/tokens"
)

const refreshFlightKey = "session-refresh"

// Options shape one dispatch. RequiresAuth attaches the cached access
// token and arms the single 401-retry path; unauthenticated calls (OTP
// request, public content) leave it false.
type Options struct {
	Method       string // defaults to GET, or POST when Body is set
	Body         any    // marshaled to JSON when non-nil
	Header       http.Header
	RequiresAuth bool
}

// Dispatcher performs outbound API calls for the client runtime. It
// attaches the current access token, detects authorization failure,
// coordinates a single shared refresh across all concurrent 401s, and
// retries each call exactly once.
type Dispatcher struct {
	apiBaseURL string
	client     *http.Client
	cache      *SessionCache
	bridge     *Bridge
	refreshing singleflight.Group
}

// NewDispatcher builds a dispatcher for the API backend at apiBaseURL.
// httpClient is shared with the bridge so both see one cookie jar.
func NewDispatcher(apiBaseURL string, httpClient *http.Client, cache *SessionCache, bridge *Bridge) (*Dispatcher, error) {
	if cache == nil {
		return nil, errors.New("[NewDispatcher] cache is required")
	}
	if bridge == nil {
		return nil, errors.New("[NewDispatcher] bridge is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Dispatcher{
		apiBaseURL: apiBaseURL,
		client:     httpClient,
		cache:      cache,
		bridge:     bridge,
	}, nil
}

// Dispatch performs one call against path and decodes a 2xx body into
// out: JSON responses unmarshal into out, anything else requires out to
// be a *string. A nil out discards the body.
//
// Failure surface: *NetworkError on transport failure (never retried),
// *APIError on a non-2xx other than a recoverable 401, ErrSessionExpired
// when requiresAuth and the refresh path is exhausted.
func (d *Dispatcher) Dispatch(ctx context.Context, path string, opts Options, out any) error {
	res, err := d.perform(ctx, path, opts, d.cache.AccessToken())
	if err != nil {
		return err
	}

	if res.StatusCode == http.StatusUnauthorized && opts.RequiresAuth {
		drain(res)
		pair, err := d.coordinateRefresh(ctx)
		if err != nil {
			return err
		}
		// One retry with the refreshed token; a second 401 falls through
		// to the generic non-2xx handling below.
		res, err = d.perform(ctx, path, opts, pair.Access)
		if err != nil {
			return err
		}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer drain(res)
		return &APIError{Message: errorMessage(res), Status: res.StatusCode}
	}

	return decodeBody(res, out)
}

// perform executes one attempt: build the request, attach the bearer,
// send.
func (d *Dispatcher) perform(ctx context.Context, path string, opts Options, accessToken string) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
		if opts.Body != nil {
			method = http.MethodPost
		}
	}

	var body io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, errors.Wrap(err, "[Dispatcher perform] marshal body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.apiBaseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Dispatcher perform] build request")
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if opts.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	// An absent token still goes out without a bearer; the backend
	// rejects with a 401 and the refresh path takes over.
	if opts.RequiresAuth && accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	res, err := d.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return res, nil
}

// coordinateRefresh funnels every concurrent 401 handler into one
// in-flight bridge refresh; late arrivals await the shared result
// instead of issuing their own. On success the ambient access token is
// updated; on failure all stored tokens are erased and the session is
// terminally expired.
func (d *Dispatcher) coordinateRefresh(ctx context.Context) (*tokens.Pair, error) {
	v, err, _ := d.refreshing.Do(refreshFlightKey, func() (any, error) {
		pair, err := d.bridge.Refresh(ctx)
		if err != nil {
			return nil, err
		}
		d.cache.SetAccessToken(pair.Access)
		return pair, nil
	})
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			return nil, netErr
		}
		log.Debug().Err(err).Msg("session refresh failed, logging out")
		d.bridge.Clear(ctx)
		d.cache.Clear()
		return nil, ErrSessionExpired
	}
	return v.(*tokens.Pair), nil
}

func decodeBody(res *http.Response, out any) error {
	defer res.Body.Close()

	if out == nil {
		io.Copy(io.Discard, res.Body) //nolint:errcheck
		return nil
	}

	mediaType, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type"))
	if strings.Contains(mediaType, "json") {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrap(err, "[Dispatcher decodeBody] decode json")
		}
		return nil
	}

	text, ok := out.(*string)
	if !ok {
		return errors.Errorf("[Dispatcher decodeBody] %s body needs a *string target", mediaType)
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "[Dispatcher decodeBody] read body")
	}
	*text = string(raw)
	return nil
}

// errorMessage extracts the most human-readable message from an error
// response: a structured detail field first, then message, then the
// first value in the body, then the transport status text.
func errorMessage(res *http.Response) string {
	raw, err := io.ReadAll(res.Body)
	if err != nil || len(raw) == 0 {
		return res.Status
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		var plain string
		if json.Unmarshal(raw, &plain) == nil && plain != "" {
			return plain
		}
		return res.Status
	}

	if detail, ok := data["detail"]; ok {
		switch v := detail.(type) {
		case string:
			return v
		case []any:
			if joined := strings.Join(utils.ToStringSlice(v), " "); joined != "" {
				return joined
			}
		}
	}
	if msg, ok := data["message"].(string); ok && msg != "" {
		return msg
	}
	for _, v := range data {
		switch value := v.(type) {
		case string:
			return value
		case []any:
			if len(value) > 0 {
				if s, ok := value[0].(string); ok {
					return s
				}
			}
		}
	}
	return res.Status
}
