package prefs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirwmr/wp-front/prefs"
)

func TestStoreReadDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := prefs.NewStore(httptest.NewRecorder(), r)

	require.Equal(t, prefs.DefaultLocale, store.ReadLocale())
	require.Equal(t, prefs.DefaultTheme, store.ReadTheme())
}

func TestStoreReadWriteRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := prefs.NewStore(w, r)

	store.WriteLocale(prefs.LocaleEnglish)
	store.WriteTheme(prefs.ThemeDark)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		require.Equal(t, 365*24*60*60, c.MaxAge)
		require.Equal(t, http.SameSiteLaxMode, c.SameSite)
		require.False(t, c.HttpOnly, "preference cookies stay script readable")
	}
}

func TestStoreIgnoresUnknownValues(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: prefs.LocaleCookieName, Value: "de"})
	r.AddCookie(&http.Cookie{Name: prefs.ThemeCookieName, Value: "solarized"})
	store := prefs.NewStore(httptest.NewRecorder(), r)

	require.Equal(t, prefs.DefaultLocale, store.ReadLocale())
	require.Equal(t, prefs.DefaultTheme, store.ReadTheme())
}

func TestLocaleDirection(t *testing.T) {
	require.Equal(t, "rtl", prefs.LocaleFarsi.Direction())
	require.Equal(t, "ltr", prefs.LocaleEnglish.Direction())
}
