package client

import (
	"sync"

	"github.com/amirwmr/wp-front/identity"
)

// SessionCache is the client runtime's view of the current session: the
// profile plus the ambient cached access token kept outside it. It is
// shared by every concurrently in-flight dispatch, so all access goes
// through the lock. Cookies remain the source of truth; this cache is a
// read-through, write-through mirror of them.
//
// Reactivity is explicit: interested parties Subscribe and are notified
// whenever the user changes (login, profile fetch, logout), replacing
// the ambient reactive store the UI layer would otherwise reach for.
type SessionCache struct {
	mu          sync.RWMutex
	user        *identity.Profile
	accessToken string
	subscribers []func(*identity.Profile)
}

func NewSessionCache() *SessionCache {
	return &SessionCache{}
}

// Init seeds the cache from server-provided data at client start.
func (c *SessionCache) Init(user *identity.Profile, accessToken string) {
	c.mu.Lock()
	c.user = user
	c.accessToken = accessToken
	c.mu.Unlock()
	c.notify(user)
}

// User returns the cached profile, nil when unauthenticated.
func (c *SessionCache) User() *identity.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// SetUser replaces the cached profile and notifies subscribers.
func (c *SessionCache) SetUser(user *identity.Profile) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	c.notify(user)
}

// AccessToken returns the ambient cached access token, "" when absent.
func (c *SessionCache) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// SetAccessToken replaces the ambient access token. Every dispatch only
// cares about the most recent token, so late writers simply win.
func (c *SessionCache) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

// Clear drops the profile and token, notifying subscribers of logout.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	c.user = nil
	c.accessToken = ""
	c.mu.Unlock()
	c.notify(nil)
}

// Subscribe registers fn to run on every user change. Subscriptions
// live for the cache's lifetime.
func (c *SessionCache) Subscribe(fn func(*identity.Profile)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *SessionCache) notify(user *identity.Profile) {
	c.mu.RLock()
	subs := make([]func(*identity.Profile), len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.RUnlock()
	for _, fn := range subs {
		fn(user)
	}
}
