// Package sessions maps a browser-issued session identifier to the Discord
// token and user profile captured during the OAuth2 callback.
package sessions

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Session is the server-held record behind a dashboard session cookie.
// Exactly one exists per cookie; the access token inside is never refreshed
// once Discord expires it.
type Session struct {
	ID          string          `json:"id"`
	AccessToken string          `json:"access_token"`
	User        *discordgo.User `json:"user"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}
