// Package server is the HTTP gateway consumed by the dashboard frontend. It
// enforces session presence on protected routes and delegates to the auth
// service and the guild settings store.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/exositeweb/exobot-backend/auth"
	"github.com/exositeweb/exobot-backend/auth/sessions"
	"github.com/exositeweb/exobot-backend/internal/config"
	"github.com/exositeweb/exobot-backend/settings"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.AuthorizationService
	sessions sessions.Repo
	settings settings.Repo
	nowTime  func() time.Time
}

func New(cfg config.Config, authService *auth.AuthorizationService, sessionRepo sessions.Repo, settingsRepo settings.Repo) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if sessionRepo == nil {
		return nil, errors.New("[Server New] session repo is required")
	}
	if settingsRepo == nil {
		return nil, errors.New("[Server New] settings repo is required")
	}
	if cfg.GetSessionSecret() == "" {
		return nil, errors.New("[Server New] session secret is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		auth:     authService,
		sessions: sessionRepo,
		settings: settingsRepo,
		nowTime:  time.Now,
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

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}
