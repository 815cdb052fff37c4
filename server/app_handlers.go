package server

import (
	"encoding/json"
	"net/http"

	"github.com/amirwmr/wp-front/identity"
	"github.com/amirwmr/wp-front/prefs"
	"github.com/amirwmr/wp-front/session"
)

// BootstrapResponse is the initial page data: whoever the cookies prove
// the user to be, plus display preferences. User is null (not an error)
// for anonymous visitors.
type BootstrapResponse struct {
	User   *identity.Profile `json:"user"`
	Locale prefs.Locale      `json:"locale"`
	Theme  prefs.Theme       `json:"theme"`
}

// BootstrapHandler handles GET /bootstrap. Runs behind the session
// resolver middleware, so the identity here is the per-request resolved
// one; asking again costs nothing.
func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := session.FromContext(r.Context())
		store := prefs.NewStore(w, r)

		writeJSON(w, http.StatusOK, BootstrapResponse{
			User:   sc.User,
			Locale: store.ReadLocale(),
			Theme:  store.ReadTheme(),
		})
	}
}

// UpdatePrefsRequest carries optional preference changes; absent fields
// are left untouched.
type UpdatePrefsRequest struct {
	Locale *prefs.Locale `json:"locale,omitempty"`
	Theme  *prefs.Theme  `json:"theme,omitempty"`
}

// UpdatePrefsHandler handles PUT /prefs, writing 1-year preference
// cookies. Unknown locale or theme values are rejected before anything
// is written.
func (s *Server) UpdatePrefsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePrefsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid payload"})
			return
		}

		if req.Locale != nil && !prefs.IsSupportedLocale(*req.Locale) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unsupported locale"})
			return
		}
		if req.Theme != nil && !prefs.IsSupportedTheme(*req.Theme) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unsupported theme"})
			return
		}

		store := prefs.NewStore(w, r)
		if req.Locale != nil {
			store.WriteLocale(*req.Locale)
		}
		if req.Theme != nil {
			store.WriteTheme(*req.Theme)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
