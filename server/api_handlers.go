package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// CurrentUserHandler returns the user profile captured at login. Served under
// both /api/user and /api/me for compatibility with both dashboard variants.
func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, session.User)
	}
}

// GuildsHandler proxies the session's guild list from Discord. The list is
// whatever Discord returns for the first page; pagination is not followed.
func (s *Server) GuildsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		guilds, err := s.auth.Guilds(r.Context(), session)
		if err != nil {
			log.Error().Err(err).Msg("fetching guild list")
			writeJSONError(w, http.StatusInternalServerError, "Failed to fetch guilds")
			return
		}
		writeJSON(w, http.StatusOK, guilds)
	}
}
