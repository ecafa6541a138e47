package server

const (
	RouteAuthDiscord  = "/auth/discord"
	RouteAuthCallback = "/auth/callback"
	RouteAuthLogout   = "/auth/logout"

	RouteAPIUser     = "/api/user"
	RouteAPIMe       = "/api/me"
	RouteAPIGuilds   = "/api/guilds"
	RouteAPISettings = "/api/settings/{guildID}"
)
