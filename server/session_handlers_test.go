package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirwmr/wp-front/identity"
	"github.com/amirwmr/wp-front/internal/config"
	"github.com/amirwmr/wp-front/server"
	fakegateway "github.com/amirwmr/wp-front/session/gatewayfakes"
	"github.com/amirwmr/wp-front/tokens"
)

const (
	testAccess     = "tok-access-abc"
	testRefresh    = "tok-refresh-abc"
	rotatedAccess  = "tok-access-new"
	rotatedRefresh = "tok-refresh-new"
)

type fixture struct {
	srv     *server.Server
	gateway *fakegateway.FakeGateway
}

func setup(t *testing.T) *fixture {
	t.Helper()

	gw := fakegateway.NewFakeGateway()
	gw.RegisterProfile(testAccess, &identity.Profile{Username: "user-1", Role: identity.RoleCouple, OnboardingStatus: identity.OnboardingCompleted})
	gw.RegisterProfile(rotatedAccess, &identity.Profile{Username: "user-1", Role: identity.RoleCouple, OnboardingStatus: identity.OnboardingCompleted})
	gw.RegisterRotation(testRefresh, tokens.Pair{Access: rotatedAccess, Refresh: rotatedRefresh})

	srv, err := server.New(config.New(), gw)
	require.NoError(t, err)

	return &fixture{srv: srv, gateway: gw}
}

func (f *fixture) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	r := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.srv.ServeHTTP(w, r)
	return w
}

func cookieByName(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestPersistSession(t *testing.T) {
	t.Run("malformed payload returns 400", func(t *testing.T) {
		f := setup(t)
		w := f.do(t, http.MethodPost, "/session", "{not json")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing refresh returns 400", func(t *testing.T) {
		f := setup(t)
		w := f.do(t, http.MethodPost, "/session", `{"access":"tok-access-abc"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Nil(t, cookieByName(w, tokens.AccessCookieName))
	})

	t.Run("valid pair round-trips through the cookie jar", func(t *testing.T) {
		f := setup(t)
		w := f.do(t, http.MethodPost, "/session", `{"access":"tok-access-abc","refresh":"tok-refresh-abc"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]bool
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.True(t, body["ok"])

		access := cookieByName(w, tokens.AccessCookieName)
		require.NotNil(t, access)
		require.Equal(t, testAccess, access.Value)
		require.False(t, access.HttpOnly)

		refresh := cookieByName(w, tokens.RefreshCookieName)
		require.NotNil(t, refresh)
		require.Equal(t, testRefresh, refresh.Value)
		require.True(t, refresh.HttpOnly)
	})
}

func TestClearSession(t *testing.T) {
	f := setup(t)

	first := f.do(t, http.MethodDelete, "/session", "",
		&http.Cookie{Name: tokens.AccessCookieName, Value: testAccess},
		&http.Cookie{Name: tokens.RefreshCookieName, Value: testRefresh},
	)
	require.Equal(t, http.StatusOK, first.Code)
	require.Negative(t, cookieByName(first, tokens.AccessCookieName).MaxAge)
	require.Negative(t, cookieByName(first, tokens.RefreshCookieName).MaxAge)
	require.Equal(t, []string{testAccess}, f.gateway.LogoutCalls, "backend gets notified best-effort")

	// Second clear with no cookies left: same observable outcome, no error.
	second := f.do(t, http.MethodDelete, "/session", "")
	require.Equal(t, http.StatusOK, second.Code)
	require.Negative(t, cookieByName(second, tokens.AccessCookieName).MaxAge)
	require.Len(t, f.gateway.LogoutCalls, 1, "nothing to notify about the second time")
}

func TestRefreshSession(t *testing.T) {
	t.Run("no refresh cookie returns 401 and clears", func(t *testing.T) {
		f := setup(t)
		w := f.do(t, http.MethodPost, "/session/refresh", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Negative(t, cookieByName(w, tokens.RefreshCookieName).MaxAge)
		require.Zero(t, f.gateway.RefreshCalls)
	})

	t.Run("valid refresh rotates and persists the pair", func(t *testing.T) {
		f := setup(t)
		w := f.do(t, http.MethodPost, "/session/refresh", "",
			&http.Cookie{Name: tokens.RefreshCookieName, Value: testRefresh})
		require.Equal(t, http.StatusOK, w.Code)

		var pair tokens.Pair
		require.NoError(t, json.NewDecoder(w.Body).Decode(&pair))
		require.Equal(t, rotatedAccess, pair.Access)
		require.Equal(t, rotatedRefresh, pair.Refresh)

		require.Equal(t, rotatedAccess, cookieByName(w, tokens.AccessCookieName).Value)
		require.Equal(t, rotatedRefresh, cookieByName(w, tokens.RefreshCookieName).Value)
	})

	t.Run("reused refresh token terminates the session", func(t *testing.T) {
		f := setup(t)
		first := f.do(t, http.MethodPost, "/session/refresh", "",
			&http.Cookie{Name: tokens.RefreshCookieName, Value: testRefresh})
		require.Equal(t, http.StatusOK, first.Code)

		second := f.do(t, http.MethodPost, "/session/refresh", "",
			&http.Cookie{Name: tokens.RefreshCookieName, Value: testRefresh})
		require.Equal(t, http.StatusUnauthorized, second.Code)
		require.Negative(t, cookieByName(second, tokens.AccessCookieName).MaxAge)
		require.Negative(t, cookieByName(second, tokens.RefreshCookieName).MaxAge)
	})

	t.Run("unknown refresh token returns 401 with message", func(t *testing.T) {
		f := setup(t)
		w := f.do(t, http.MethodPost, "/session/refresh", "",
			&http.Cookie{Name: tokens.RefreshCookieName, Value: "tok-refresh-revoked"})
		require.Equal(t, http.StatusUnauthorized, w.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Equal(t, "Session expired", body["message"])
	})
}
