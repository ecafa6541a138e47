package config

import (
	"strconv"
	"time"
)

type OAuthConfig interface {
	GetDiscordClientID() string
	GetDiscordClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
	GetDiscordAPIBase() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetStateTimeout() time.Duration
	GetUpstreamTimeout() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetDiscordClientID() string {
	return GetEnv("DISCORD_CLIENT_ID", "")
}

func (OAuth) GetDiscordClientSecret() string {
	return GetEnv("DISCORD_CLIENT_SECRET", "")
}

func (OAuth) GetRedirectURI() string {
	return GetEnv("OAUTH_REDIRECT_URI", "https://exositeweb.github.io/exobot-website/dashboard.html")
}

// GetScopes returns the OAuth2 scopes requested from Discord: identity for
// the profile and guilds for the server list.
func (OAuth) GetScopes() []string {
	return []string{"identify", "guilds"}
}

func (OAuth) GetDiscordAPIBase() string {
	return GetEnv("DISCORD_API_BASE", "https://discord.com/api/v10")
}

func (OAuth) GetAuthorizeURL() string {
	return GetEnv("DISCORD_AUTHORIZE_URL", "https://discord.com/oauth2/authorize")
}

func (OAuth) GetTokenURL() string {
	return GetEnv("DISCORD_TOKEN_URL", "https://discord.com/api/oauth2/token")
}

// GetStateTimeout bounds how long an issued CSRF state remains exchangeable.
func (OAuth) GetStateTimeout() time.Duration {
	return 15 * time.Minute
}

// GetUpstreamTimeout caps every outbound Discord call so a hung upstream
// cannot hang the corresponding dashboard request indefinitely.
func (OAuth) GetUpstreamTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv("UPSTREAM_TIMEOUT_SECONDS", "10"))
	if err != nil || seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}
