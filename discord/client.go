// Package discord is a thin client for the two Discord surfaces the dashboard
// needs: the OAuth2 token endpoint and the REST API read endpoints for the
// current user and their guild list.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"

	"github.com/exositeweb/exobot-backend/internal/config"
	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

// Client issues single HTTP calls against Discord on behalf of a dashboard
// session. There is no caching, no retrying, and the guild list is not
// paginated: users in more guilds than one page returns see a truncated list.
type Client struct {
	oauth      *oauth2.Config
	apiBase    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a Client from the OAuth configuration. Every call the Client
// makes is bounded by the configured upstream timeout.
func New(cfg config.OAuthConfig) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetDiscordClientID(),
			ClientSecret: cfg.GetDiscordClientSecret(),
			RedirectURL:  cfg.GetRedirectURI(),
			Scopes:       cfg.GetScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.GetAuthorizeURL(),
				TokenURL:  cfg.GetTokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiBase:    cfg.GetDiscordAPIBase(),
		httpClient: &http.Client{Timeout: cfg.GetUpstreamTimeout()},
		timeout:    cfg.GetUpstreamTimeout(),
	}
}

// AuthCodeURL builds the Discord authorize URL for the configured client,
// carrying response_type=code, the requested scopes, the redirect URI and the
// supplied CSRF state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode swaps an authorization code for a token. The redirect URI sent
// with the exchange must match the one the code was issued against, which the
// shared oauth2.Config guarantees.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		var urlErr *url.Error
		switch {
		case errors.As(err, &retrieveErr):
			return nil, apperrors.Wrapf(apperrors.ErrTokenExchangeFailed, "token endpoint returned %d", retrieveErr.Response.StatusCode)
		case errors.As(err, &urlErr):
			return nil, apperrors.Wrapf(apperrors.ErrUpstreamUnavailable, "token endpoint unreachable")
		default:
			// Covers a 2xx response carrying no usable access token.
			return nil, apperrors.Wrapf(apperrors.ErrTokenExchangeFailed, "token endpoint returned an unusable response")
		}
	}
	return token, nil
}

// FetchCurrentUser retrieves the profile of the user the token belongs to.
func (c *Client) FetchCurrentUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	var user discordgo.User
	if err := c.getJSON(ctx, "/users/@me", accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchCurrentUserGuilds retrieves the user's guild list as Discord returns
// it, including the caller's permission bits per guild.
func (c *Client) FetchCurrentUserGuilds(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error) {
	var guilds []*discordgo.UserGuild
	if err := c.getJSON(ctx, "/users/@me/guilds", accessToken, &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

func (c *Client) getJSON(ctx context.Context, path, accessToken string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return apperrors.Wrapf(err, "[Client getJSON] building request for %s", path)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrUpstreamUnavailable, "GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apperrors.Wrapf(apperrors.ErrUpstreamStatus, "GET %s returned %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, "[Client getJSON] decoding %s response", path)
	}
	return nil
}
