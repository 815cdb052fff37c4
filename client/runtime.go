package client

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 15 * time.Second

// Runtime bundles the long-lived client-side pieces: one HTTP client
// with a cookie jar shared by the dispatcher and the bridge, the
// session cache, and the auth flows built on top of them.
type Runtime struct {
	Cache      *SessionCache
	Bridge     *Bridge
	Dispatcher *Dispatcher
	Auth       *Auth
}

// NewRuntime wires up a client runtime talking to the app origin at
// appBaseURL (session bridge) and the API backend at apiBaseURL.
func NewRuntime(appBaseURL, apiBaseURL string) (*Runtime, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "[NewRuntime] cookie jar")
	}
	httpClient := &http.Client{Jar: jar, Timeout: defaultTimeout}

	cache := NewSessionCache()
	bridge := NewBridge(appBaseURL, httpClient)
	dispatcher, err := NewDispatcher(apiBaseURL, httpClient, cache, bridge)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Cache:      cache,
		Bridge:     bridge,
		Dispatcher: dispatcher,
		Auth:       NewAuth(dispatcher, bridge, cache),
	}, nil
}
