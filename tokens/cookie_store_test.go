package tokens_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirwmr/wp-front/tokens"
)

func newStore(t *testing.T, cookies ...*http.Cookie) (*tokens.CookieStore, *httptest.ResponseRecorder) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	return tokens.NewCookieStore(w, r, false), w
}

func responseCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCookieStoreReadsRequestCookies(t *testing.T) {
	store, _ := newStore(t,
		&http.Cookie{Name: tokens.AccessCookieName, Value: "tok-access"},
		&http.Cookie{Name: tokens.RefreshCookieName, Value: "tok-refresh"},
	)

	access, refresh := store.Read()
	require.Equal(t, "tok-access", access)
	require.Equal(t, "tok-refresh", refresh)
}

func TestCookieStoreReadsPartialFragments(t *testing.T) {
	store, _ := newStore(t, &http.Cookie{Name: tokens.AccessCookieName, Value: "tok-access"})

	access, refresh := store.Read()
	require.Equal(t, "tok-access", access)
	require.Empty(t, refresh)
}

func TestCookieStoreWriteRoundTrip(t *testing.T) {
	store, w := newStore(t)
	pair := tokens.Pair{Access: "tok-access-new", Refresh: "tok-refresh-new"}

	store.Write(pair, tokens.WriteOptions{})

	// Read after write observes the new pair even though the inbound
	// request carried nothing.
	access, refresh := store.Read()
	require.Equal(t, pair.Access, access)
	require.Equal(t, pair.Refresh, refresh)

	accessCookie := responseCookie(t, w, tokens.AccessCookieName)
	require.NotNil(t, accessCookie)
	require.Equal(t, pair.Access, accessCookie.Value)
	require.Equal(t, int(tokens.DefaultAccessTTL.Seconds()), accessCookie.MaxAge)
	require.False(t, accessCookie.HttpOnly, "access cookie must stay readable by client scripts")
	require.Equal(t, http.SameSiteLaxMode, accessCookie.SameSite)

	refreshCookie := responseCookie(t, w, tokens.RefreshCookieName)
	require.NotNil(t, refreshCookie)
	require.Equal(t, pair.Refresh, refreshCookie.Value)
	require.Equal(t, int(tokens.DefaultRefreshTTL.Seconds()), refreshCookie.MaxAge)
	require.True(t, refreshCookie.HttpOnly, "refresh cookie must never be script readable")
}

func TestCookieStoreWriteCustomTTLs(t *testing.T) {
	store, w := newStore(t)

	store.Write(tokens.Pair{Access: "a", Refresh: "r"}, tokens.WriteOptions{
		AccessTTL:  tokens.DefaultAccessTTL * 2,
		RefreshTTL: tokens.DefaultRefreshTTL * 2,
	})

	require.Equal(t, int((tokens.DefaultAccessTTL * 2).Seconds()), responseCookie(t, w, tokens.AccessCookieName).MaxAge)
	require.Equal(t, int((tokens.DefaultRefreshTTL * 2).Seconds()), responseCookie(t, w, tokens.RefreshCookieName).MaxAge)
}

func TestCookieStoreErase(t *testing.T) {
	store, w := newStore(t,
		&http.Cookie{Name: tokens.AccessCookieName, Value: "tok-access"},
		&http.Cookie{Name: tokens.RefreshCookieName, Value: "tok-refresh"},
	)

	store.Erase()

	access, refresh := store.Read()
	require.Empty(t, access, "read after erase must not resurrect the request cookie")
	require.Empty(t, refresh)

	for _, name := range []string{tokens.AccessCookieName, tokens.RefreshCookieName} {
		c := responseCookie(t, w, name)
		require.NotNil(t, c)
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	}
}

func TestCookieStoreEraseAfterWrite(t *testing.T) {
	store, _ := newStore(t)
	store.Write(tokens.Pair{Access: "a", Refresh: "r"}, tokens.WriteOptions{})
	store.Erase()

	access, refresh := store.Read()
	require.Empty(t, access)
	require.Empty(t, refresh)
}

func TestPairComplete(t *testing.T) {
	tests := []struct {
		name string
		pair tokens.Pair
		want bool
	}{
		{"both present", tokens.Pair{Access: "a", Refresh: "r"}, true},
		{"missing access", tokens.Pair{Refresh: "r"}, false},
		{"missing refresh", tokens.Pair{Access: "a"}, false},
		{"empty", tokens.Pair{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.pair.Complete())
		})
	}
}
