package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.APIMiddleware()...))

	// Preflight requests never match the method-specific patterns below, so
	// they all land here and are answered by the CORS middleware.
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))

	// AUTH
	s.RegisterRouteHandler("GET "+RouteAuthDiscord, ChainMiddleware(s.AuthURLHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthCallback, ChainMiddleware(s.AuthCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Protected API routes (require a live session cookie)
	s.RegisterRouteHandler("GET "+RouteAPIUser, ChainMiddleware(s.CurrentUserHandler(), s.ProtectedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIMe, ChainMiddleware(s.CurrentUserHandler(), s.ProtectedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIGuilds, ChainMiddleware(s.GuildsHandler(), s.ProtectedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPISettings, ChainMiddleware(s.GetSettingsHandler(), s.ProtectedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISettings, ChainMiddleware(s.PutSettingsHandler(), s.ProtectedAPIMiddleware()...))
}

// PreflightHandler is the terminal handler for OPTIONS requests; by the time
// it runs the CORS middleware has already written the preflight response.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
