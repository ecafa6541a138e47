package server

import (
	"fmt"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/exositeweb/exobot-backend/auth/sessions"
)

// The cookie does not carry the session ID directly: the value is a compact
// HS256 JWT wrapping it, signed with the session secret, so a forged or
// tampered cookie fails verification before the store is ever consulted.

const sessionIDClaim = "sid"

func (s *Server) signSessionID(sessionID string, expiresAt time.Time) (string, error) {
	claims := jwtlib.MapClaims{
		sessionIDClaim: sessionID,
		"iat":          s.nowTime().Unix(),
		"exp":          expiresAt.Unix(),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.GetSessionSecret()))
}

func (s *Server) verifySessionCookie(value string) (string, error) {
	token, err := jwtlib.Parse(value, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.GetSessionSecret()), nil
	})
	if err != nil {
		return "", fmt.Errorf("parsing session cookie: %w", err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return "", fmt.Errorf("unexpected claims type in session cookie")
	}
	sessionID, ok := claims[sessionIDClaim].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("session cookie carries no session id")
	}
	return sessionID, nil
}

// setSessionCookie issues the cross-site session cookie. The dashboard runs
// on a different origin, so SameSite must be None, which in turn requires
// Secure.
func (s *Server) setSessionCookie(w http.ResponseWriter, session sessions.Session) error {
	signed, err := s.signSessionID(session.ID, session.ExpiresAt)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    signed,
		Path:     "/",
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
