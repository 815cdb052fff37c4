package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	apperrors "github.com/amirwmr/wp-front/internal/errors"
	"github.com/amirwmr/wp-front/tokens"
)

// Bridge routes on the app origin. Only the server context may set the
// HttpOnly refresh cookie, so every cookie mutation the client runtime
// needs is delegated through these.
const (
	routeSession        = "/session"
	routeSessionRefresh = "/session/refresh"
)

// Bridge is the client for the narrow internal session surface. The
// HTTP client must carry a cookie jar for the app origin: the refresh
// cookie is never readable here, it travels only inside the jar.
type Bridge struct {
	baseURL string
	client  *http.Client
}

// NewBridge creates a bridge client for the app origin at baseURL.
func NewBridge(baseURL string, httpClient *http.Client) *Bridge {
	return &Bridge{baseURL: baseURL, client: httpClient}
}

// Persist asks the server context to write pair into the cookie jar.
func (b *Bridge) Persist(ctx context.Context, pair tokens.Pair) error {
	body, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "[Bridge Persist] marshal")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+routeSession, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "[Bridge Persist] build request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := b.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer drain(res)

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("[Bridge Persist] session endpoint returned %d: %w", res.StatusCode, apperrors.ErrInvalidPayload)
	}
	return nil
}

// Refresh asks the server context to rotate the token pair using the
// refresh cookie only it can read. A failure is definitive and maps to
// ErrSessionExpired; the caller must treat the session as over.
func (b *Bridge) Refresh(ctx context.Context) (*tokens.Pair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+routeSessionRefresh, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Bridge Refresh] build request")
	}

	res, err := b.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer drain(res)

	if res.StatusCode != http.StatusOK {
		return nil, ErrSessionExpired
	}

	var pair tokens.Pair
	if err := json.NewDecoder(res.Body).Decode(&pair); err != nil || !pair.Complete() {
		return nil, ErrSessionExpired
	}
	return &pair, nil
}

// Clear asks the server context to erase the session cookies.
// Best-effort and idempotent: a transport failure is logged, not
// returned, because local logout must always complete.
func (b *Bridge) Clear(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.baseURL+routeSession, nil)
	if err != nil {
		return
	}
	res, err := b.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("failed to clear session cookies")
		return
	}
	drain(res)
}

func drain(res *http.Response) {
	io.Copy(io.Discard, res.Body) //nolint:errcheck
	res.Body.Close()
}
