package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/amirwmr/wp-front/session"
	"github.com/amirwmr/wp-front/tokens"
)

const contentTypeJSON = "application/json; charset=utf-8"

// PersistSessionHandler handles POST /session: the client runtime hands
// over a freshly issued pair (credential exchange happens client-side)
// and the server context writes it into the cookie jar, since only this
// context may set the HttpOnly refresh cookie.
func (s *Server) PersistSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pair tokens.Pair
		if err := json.NewDecoder(r.Body).Decode(&pair); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid payload"})
			return
		}
		if !pair.Complete() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Missing tokens"})
			return
		}

		store := s.tokenStore(w, r)
		store.Write(pair, s.writeOptions())

		sc := session.FromContext(r.Context())
		sc.AccessToken = pair.Access
		sc.RefreshToken = pair.Refresh

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// ClearSessionHandler handles DELETE /session. Idempotent: clearing an
// already-clear session succeeds. The identity backend is notified
// best-effort; session teardown never depends on it.
func (s *Server) ClearSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := s.tokenStore(w, r)
		access, _ := store.Read()
		store.Erase()
		session.FromContext(r.Context()).Clear()

		if access != "" {
			s.gateway.Logout(r.Context(), access)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// RefreshSessionHandler handles POST /session/refresh: the server-side
// half of the client's 401 recovery. It reads the refresh cookie only
// this context can see, rotates the pair through the identity backend,
// and persists the result. Any failure is definitive and tears the
// session down.
func (s *Server) RefreshSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := s.tokenStore(w, r)
		_, refresh := store.Read()
		sc := session.FromContext(r.Context())

		if refresh == "" {
			store.Erase()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "No session available"})
			return
		}

		pair := s.gateway.Refresh(r.Context(), refresh)
		if pair == nil {
			store.Erase()
			sc.Clear()
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Session expired"})
			return
		}

		store.Write(*pair, s.writeOptions())
		sc.AccessToken = pair.Access
		sc.RefreshToken = pair.Refresh

		writeJSON(w, http.StatusOK, pair)
	}
}

func (s *Server) writeOptions() tokens.WriteOptions {
	return tokens.WriteOptions{
		AccessTTL:  s.config.GetAccessTokenTTL(),
		RefreshTTL: s.config.GetRefreshTokenTTL(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn().Err(err).Msg("failed to encode response body")
	}
}
