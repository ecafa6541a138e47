package server

import (
	"context"
	"net/http"

	"github.com/exositeweb/exobot-backend/auth/sessions"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the resolved session for protected routes
const ContextKeySession ContextKey = "session"

// RequireSessionAuth is middleware for protected API routes. It rejects with
// 401 when the session cookie is absent, unverifiable, or maps to an expired
// or unknown session, before the request touches any other component.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(s.config.GetSessionCookieName())
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			sessionID, err := s.verifySessionCookie(cookie.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			session, err := s.sessions.Get(r.Context(), sessionID)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			next(w, r.WithContext(ctx))
		}
	}
}

// sessionFromContext returns the session injected by RequireSessionAuth.
func sessionFromContext(ctx context.Context) (sessions.Session, bool) {
	session, ok := ctx.Value(ContextKeySession).(sessions.Session)
	return session, ok
}
