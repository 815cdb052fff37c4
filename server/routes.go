package server

import "github.com/amirwmr/wp-front/session"

func (s *Server) initRoutes() {
	// Session bridge: the only routes that may mutate the auth cookies.
	s.RegisterRouteHandler("POST "+RouteSession, ChainMiddleware(s.PersistSessionHandler(), s.BridgeMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteSession, ChainMiddleware(s.ClearSessionHandler(), s.BridgeMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSessionRefresh, ChainMiddleware(s.RefreshSessionHandler(), s.BridgeMiddleware()...))

	// App routes run behind the session resolver.
	s.RegisterRouteHandler("GET "+RouteBootstrap,
		ChainMiddleware(s.BootstrapHandler(), append(s.BridgeMiddleware(), session.Middleware(s.resolver, s.tokenStore))...))
	s.RegisterRouteHandler("PUT "+RoutePrefs, ChainMiddleware(s.UpdatePrefsHandler(), s.BridgeMiddleware()...))
}
