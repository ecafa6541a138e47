package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

// AuthURLHandler hands the frontend the Discord authorize URL to redirect to.
func (s *Server) AuthURLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := s.auth.BeginAuthorization(r.Context())
		if err != nil {
			log.Error().Err(err).Msg("building authorize URL")
			writeJSONError(w, http.StatusInternalServerError, "OAuth failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"authUrl": authURL})
	}
}

type callbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// AuthCallbackHandler exchanges the code the frontend relayed from Discord's
// redirect and issues the session cookie. Upstream failure detail is logged
// here and never forwarded to the client.
func (s *Server) AuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req callbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		session, err := s.auth.CompleteAuthorization(r.Context(), req.Code, req.State)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrMissingCode):
				writeJSONError(w, http.StatusBadRequest, "No code")
			case errors.Is(err, apperrors.ErrInvalidState):
				writeJSONError(w, http.StatusBadRequest, "Invalid state")
			default:
				log.Error().Err(err).Msg("completing authorization")
				writeJSONError(w, http.StatusInternalServerError, "OAuth failed")
			}
			return
		}

		if err := s.setSessionCookie(w, session); err != nil {
			log.Error().Err(err).Msg("signing session cookie")
			_ = s.auth.Logout(r.Context(), session.ID)
			writeJSONError(w, http.StatusInternalServerError, "OAuth failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"user":    session.User,
		})
	}
}

// LogoutHandler destroys the session behind the cookie, if any, and always
// reports success.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(s.config.GetSessionCookieName()); err == nil {
			if sessionID, err := s.verifySessionCookie(cookie.Value); err == nil {
				if err := s.auth.Logout(r.Context(), sessionID); err != nil {
					log.Error().Err(err).Msg("destroying session on logout")
				}
			}
		}

		s.clearSessionCookie(w)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
