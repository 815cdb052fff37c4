package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirwmr/wp-front/identity"
	"github.com/amirwmr/wp-front/tokens"
)

// fakeBackend is a minimal identity backend for the auth flows: OTP
// login issues the rotated pair, /identity/me answers for it.
func fakeBackend(t *testing.T) http.HandlerFunc {
	t.Helper()
	profile := identity.Profile{Username: "user-1", Role: identity.RoleCouple, OnboardingStatus: identity.OnboardingCompleted}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/identity/otp/request":
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "sent", "debug_code": "123456"})
		case "/identity/otp/verify":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["code"] != "123456" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid code"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access":  rotatedAccess,
				"refresh": testRefresh,
				"user":    profile,
			})
		case "/identity/me":
			if bearer(r) != rotatedAccess {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(profile)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestAuthLoginFlow(t *testing.T) {
	f := setup(t, fakeBackend(t))
	auth := f.runtime.Auth
	ctx := context.Background()

	otp, err := auth.RequestOTP(ctx, "+989121234567", identity.RoleCouple)
	require.NoError(t, err)
	require.Equal(t, "123456", otp.DebugCode)

	result, err := auth.VerifyOTP(ctx, "+989121234567", otp.DebugCode, identity.RoleCouple)
	require.NoError(t, err)
	require.Equal(t, rotatedAccess, result.Access)

	// The pair went through the bridge and the cache mirrors it.
	require.Equal(t, rotatedAccess, f.runtime.Cache.AccessToken())
	require.NotNil(t, f.runtime.Cache.User())
	require.Equal(t, "user-1", f.runtime.Cache.User().Username)

	// An authenticated call works right away.
	me, err := auth.FetchMe(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", me.Username)
}

func TestAuthVerifyOTPWrongCode(t *testing.T) {
	f := setup(t, fakeBackend(t))

	_, err := f.runtime.Auth.VerifyOTP(context.Background(), "+989121234567", "000000", identity.RoleCouple)
	require.Error(t, err)
	require.Empty(t, f.runtime.Cache.AccessToken(), "failed login leaves no session behind")
}

func TestAuthLogout(t *testing.T) {
	f := setup(t, fakeBackend(t))
	f.login(t, rotatedAccess)
	f.runtime.Cache.SetUser(&identity.Profile{Username: "user-1"})

	var loggedOut bool
	f.runtime.Cache.Subscribe(func(u *identity.Profile) {
		if u == nil {
			loggedOut = true
		}
	})

	f.runtime.Auth.Logout(context.Background())

	require.True(t, loggedOut, "subscribers observe the logout")
	require.Nil(t, f.runtime.Cache.User())
	require.Empty(t, f.runtime.Cache.AccessToken())
	require.Equal(t, []string{rotatedAccess}, f.gateway.LogoutCalls, "bridge clear notified the backend")
}

func TestAuthRefreshSession(t *testing.T) {
	f := setup(t, fakeBackend(t))
	f.login(t, staleAccess)

	pair, err := f.runtime.Auth.RefreshSession(context.Background())
	require.NoError(t, err)
	require.Equal(t, tokens.Pair{Access: rotatedAccess, Refresh: rotatedRefresh}, *pair)
	require.Equal(t, rotatedAccess, f.runtime.Cache.AccessToken())
}
