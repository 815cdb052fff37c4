package tokens

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

var _ Store = (*CookieStore)(nil)

// CookieStore is the server-side token store for a single inbound
// request. Reads come from the request cookie jar; writes go to the
// response. Because a Set-Cookie on the response is not visible in the
// inbound request, every write is also recorded in a same-request cache
// which Read prefers, so handlers running after a persist observe the
// new pair.
type CookieStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool

	cached  *Pair
	cleared bool
}

// NewCookieStore builds a store scoped to one request/response pair.
// forceSecure marks cookies Secure even on plain-HTTP requests
// (deployments behind a TLS-terminating proxy).
func NewCookieStore(w http.ResponseWriter, r *http.Request, forceSecure bool) *CookieStore {
	return &CookieStore{
		w:      w,
		r:      r,
		secure: forceSecure || r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
	}
}

func (cs *CookieStore) Read() (access, refresh string) {
	if cs.cached != nil {
		return cs.cached.Access, cs.cached.Refresh
	}
	if cs.cleared {
		return "", ""
	}
	if c, err := cs.r.Cookie(AccessCookieName); err == nil {
		access = c.Value
	}
	if c, err := cs.r.Cookie(RefreshCookieName); err == nil {
		refresh = c.Value
	}
	return access, refresh
}

func (cs *CookieStore) Write(pair Pair, opts WriteOptions) {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = DefaultAccessTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = DefaultRefreshTTL
	}

	// The access cookie stays readable by client scripts: the client
	// runtime needs it for the Authorization header. The refresh cookie
	// is HttpOnly and only ever travels through the server context.
	http.SetCookie(cs.w, &http.Cookie{
		Name:     AccessCookieName,
		Value:    pair.Access,
		Path:     "/",
		MaxAge:   int(opts.AccessTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   cs.secure,
		HttpOnly: false,
	})
	http.SetCookie(cs.w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.Refresh,
		Path:     "/",
		MaxAge:   int(opts.RefreshTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   cs.secure,
		HttpOnly: true,
	})

	p := pair
	cs.cached = &p
	cs.cleared = false
}

// Erase expires both cookies. Best-effort: it never surfaces a failure
// to the caller.
func (cs *CookieStore) Erase() {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		http.SetCookie(cs.w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			SameSite: http.SameSiteLaxMode,
			Secure:   cs.secure,
			HttpOnly: name == RefreshCookieName,
		})
	}
	cs.cached = nil
	cs.cleared = true
	log.Debug().Msg("session cookies cleared")
}
