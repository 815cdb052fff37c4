package session

import (
	"fmt"
	"net/url"

	"github.com/amirwmr/wp-front/identity"
)

// RedirectError tells the caller to send the user somewhere else
// instead of serving the guarded resource.
type RedirectError struct {
	Target string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s", e.Target)
}

// RequireAuthenticated returns the profile or a redirect to the login
// page, preserving the originally requested target in ?next=.
func RequireAuthenticated(sc *Context, target string) (*identity.Profile, error) {
	if !sc.Authenticated() {
		login := "/login"
		if target != "" {
			login += "?next=" + url.QueryEscape(target)
		}
		return nil, &RedirectError{Target: login}
	}
	return sc.User, nil
}

// RequireOnboarded additionally requires completed onboarding.
func RequireOnboarded(sc *Context, target string) (*identity.Profile, error) {
	user, err := RequireAuthenticated(sc, target)
	if err != nil {
		return nil, err
	}
	if !IsOnboardingComplete(user) {
		return nil, &RedirectError{Target: "/onboarding"}
	}
	return user, nil
}

// RequireRole additionally requires one of the given roles; users with
// another role land on their dashboard.
func RequireRole(sc *Context, target string, roles ...identity.RoleType) (*identity.Profile, error) {
	user, err := RequireAuthenticated(sc, target)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, &RedirectError{Target: "/dashboard"}
}
