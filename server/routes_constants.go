package server

// Session bridge surface (cookie mutation delegated by the client runtime)
const (
	RouteSession        = "/session"
	RouteSessionRefresh = "/session/refresh"
)

// App surface
const (
	RouteBootstrap = "/bootstrap"
	RoutePrefs     = "/prefs"
)
