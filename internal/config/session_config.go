package config

import (
	"time"
)

type SessionConfig interface {
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
	GetCookieSecure() bool
}

type Session struct{}

var _ SessionConfig = Session{}

// GetAccessTokenTTL returns the access cookie lifetime.
// Aligned with the backend access token lifetime (5 minutes).
func (Session) GetAccessTokenTTL() time.Duration {
	return fromEnvSeconds("ACCESS_TOKEN_TTL", 5*time.Minute)
}

// GetRefreshTokenTTL returns the refresh cookie lifetime (7 days).
func (Session) GetRefreshTokenTTL() time.Duration {
	return fromEnvSeconds("REFRESH_TOKEN_TTL", 7*24*time.Hour)
}

// GetCookieSecure reports whether session cookies must carry the Secure
// attribute regardless of the request scheme.
func (Session) GetCookieSecure() bool {
	return GetEnv("AUTH_COOKIE_SECURE", "") == "true"
}

func fromEnvSeconds(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw + "s")
	if err != nil {
		return defaultValue
	}
	return d
}
