// Package server hosts the narrow internal surface between the client
// runtime and the server context: the session bridge endpoints, the
// per-request session resolution middleware, and the preference/
// bootstrap handlers around them.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/amirwmr/wp-front/internal/config"
	"github.com/amirwmr/wp-front/session"
	"github.com/amirwmr/wp-front/tokens"
)

// IdentityGateway is the slice of the identity backend client the
// bridge endpoints need: the resolver operations plus the best-effort
// logout notification.
type IdentityGateway interface {
	session.Gateway
	Logout(ctx context.Context, accessToken string)
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	gateway  IdentityGateway
	resolver *session.Resolver
}

func New(cfg config.Config, gateway IdentityGateway) (*Server, error) {
	if gateway == nil {
		return nil, errors.New("[Server New] gateway is required")
	}
	resolver, err := session.NewResolver(gateway,
		session.WithTokenTTLs(cfg.GetAccessTokenTTL(), cfg.GetRefreshTokenTTL()))
	if err != nil {
		return nil, errors.Wrap(err, "[Server New] failed to create session resolver")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		gateway:  gateway,
		resolver: resolver,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// tokenStore builds the per-request cookie-backed token store.
func (s *Server) tokenStore(w http.ResponseWriter, r *http.Request) tokens.Store {
	return tokens.NewCookieStore(w, r, s.config.GetCookieSecure())
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
