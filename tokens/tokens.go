package tokens

import "time"

// Cookie names shared by the server cookie jar and the client runtime.
// The values are opaque bearer strings issued by the identity backend.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// Default cookie lifetimes. The access lifetime is aligned with the
// backend access token lifetime (5 minutes).
const (
	DefaultAccessTTL  = 5 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Pair is an access+refresh token pair issued together by the identity
// backend. A Pair is only valid as a unit immediately after issuance;
// the two tokens expire independently afterwards. A successful refresh
// always supersedes the pair in full, never partially.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both tokens are present.
func (p Pair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// WriteOptions control how a Store persists a pair.
type WriteOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Store is the durable holder of the current token pair for one
// execution context. Read returns whatever fragments are present
// (either token may be absent). Erase is best-effort and never
// surfaces an error to callers.
type Store interface {
	Read() (access, refresh string)
	Write(pair Pair, opts WriteOptions)
	Erase()
}
