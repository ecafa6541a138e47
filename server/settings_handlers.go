package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// authorizeGuild resolves the guild ID from the path and checks that the
// session's user may configure it. On failure the response has already been
// written and ok is false.
func (s *Server) authorizeGuild(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}

	guildID := r.PathValue("guildID")
	if guildID == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing guild id")
		return "", false
	}

	canManage, err := s.auth.CanManageGuild(r.Context(), session, guildID)
	if err != nil {
		log.Error().Err(err).Str("guild_id", guildID).Msg("checking guild permissions")
		writeJSONError(w, http.StatusInternalServerError, "Failed to verify guild access")
		return "", false
	}
	if !canManage {
		writeJSONError(w, http.StatusForbidden, "Missing permissions")
		return "", false
	}

	return guildID, true
}

// GetSettingsHandler returns the guild's stored settings document, or an
// empty object when nothing was ever saved.
func (s *Server) GetSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID, ok := s.authorizeGuild(w, r)
		if !ok {
			return
		}

		doc, err := s.settings.Get(r.Context(), guildID)
		if err != nil {
			log.Error().Err(err).Str("guild_id", guildID).Msg("reading guild settings")
			writeJSONError(w, http.StatusInternalServerError, "Failed to read settings")
			return
		}
		writeRawJSON(w, http.StatusOK, doc)
	}
}

// PutSettingsHandler replaces the guild's settings document wholesale. The
// body is stored as-is; there is no schema and no merge.
func (s *Server) PutSettingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID, ok := s.authorizeGuild(w, r)
		if !ok {
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(body) == 0 || !json.Valid(body) {
			writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if err := s.settings.Put(r.Context(), guildID, body); err != nil {
			log.Error().Err(err).Str("guild_id", guildID).Msg("saving guild settings")
			writeJSONError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
