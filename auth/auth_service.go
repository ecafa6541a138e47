// Package auth orchestrates the OAuth2 authorization-code flow against
// Discord and owns the resulting dashboard sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/exositeweb/exobot-backend/auth/flowstate"
	"github.com/exositeweb/exobot-backend/auth/sessions"
	"github.com/exositeweb/exobot-backend/internal/config"
	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

const stateGenerationLength = 32

// Discord is the upstream surface the service needs: URL construction, the
// code exchange and the two read endpoints called with a user token.
type Discord interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error)
	FetchCurrentUser(ctx context.Context, accessToken string) (*discordgo.User, error)
	FetchCurrentUserGuilds(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error)
}

// Repos holds all repository dependencies for the AuthorizationService
type Repos struct {
	Sessions  sessions.Repo  // Repository for session data
	FlowState flowstate.Repo // Repository for issued CSRF states
}

// AuthorizationService drives the authorization-code flow: it builds the
// authorize URL, exchanges the callback code for a token, fetches the user
// profile and persists the session.
type AuthorizationService struct {
	repos        Repos
	discord      Discord
	stateTimeout time.Duration
	nowTime      func() time.Time // nowTime function (injectable for testing)
}

// AuthorizationServiceOption defines a function type to modify the AuthorizationService instance.
type AuthorizationServiceOption func(*AuthorizationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) AuthorizationServiceOption {
	return func(as *AuthorizationService) {
		as.nowTime = nowFunc
	}
}

// NewAuthorizationService initializes a new AuthorizationService with required dependencies.
func NewAuthorizationService(
	repos Repos,
	discordClient Discord,
	cfg config.OAuthConfig,
	options ...AuthorizationServiceOption,
) (*AuthorizationService, error) {
	if repos.Sessions == nil {
		return nil, errors.New("[NewAuthorizationService] Sessions repo is required")
	}
	if repos.FlowState == nil {
		return nil, errors.New("[NewAuthorizationService] FlowState repo is required")
	}
	if discordClient == nil {
		return nil, errors.New("[NewAuthorizationService] discord client is required")
	}
	if cfg == nil {
		return nil, errors.New("[NewAuthorizationService] config is required")
	}

	authService := &AuthorizationService{
		repos:        repos,
		discord:      discordClient,
		stateTimeout: cfg.GetStateTimeout(),
		nowTime:      time.Now,
	}

	for _, opt := range options {
		opt(authService)
	}

	return authService, nil
}

// BeginAuthorization mints a fresh CSRF state, records it, and returns the
// Discord authorize URL carrying it. Pure URL construction otherwise.
func (as *AuthorizationService) BeginAuthorization(_ context.Context) (string, error) {
	state, err := generateState()
	if err != nil {
		return "", errors.Wrap(err, "[BeginAuthorization] generating state")
	}

	if err := as.repos.FlowState.Upsert(state, &flowstate.FlowState{CreatedAt: as.nowTime()}); err != nil {
		return "", errors.Wrap(err, "[BeginAuthorization] storing state")
	}

	return as.discord.AuthCodeURL(state), nil
}

// CompleteAuthorization exchanges the callback code for a token, fetches the
// user profile and creates the session. The session only comes into existence
// after the profile fetch succeeds, so a failed fetch leaves nothing behind
// except the discarded token.
func (as *AuthorizationService) CompleteAuthorization(ctx context.Context, code, state string) (sessions.Session, error) {
	if code == "" {
		return sessions.Session{}, apperrors.ErrMissingCode
	}

	if err := as.consumeState(state); err != nil {
		return sessions.Session{}, err
	}

	token, err := as.discord.ExchangeCode(ctx, code)
	if err != nil {
		return sessions.Session{}, errors.Wrap(err, "[CompleteAuthorization] exchanging code")
	}

	user, err := as.discord.FetchCurrentUser(ctx, token.AccessToken)
	if err != nil {
		return sessions.Session{}, apperrors.Wrapf(apperrors.ErrProfileFetchFailed, "[CompleteAuthorization] %v", err)
	}

	session, err := as.repos.Sessions.Create(ctx, sessions.Session{
		AccessToken: token.AccessToken,
		User:        user,
	})
	if err != nil {
		return sessions.Session{}, errors.Wrap(err, "[CompleteAuthorization] creating session")
	}

	return session, nil
}

// Logout destroys the session unconditionally; logging out twice, or a
// session that never existed, both succeed.
func (as *AuthorizationService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return as.repos.Sessions.Delete(ctx, sessionID)
}

// Guilds proxies the session's guild list from Discord.
func (as *AuthorizationService) Guilds(ctx context.Context, session sessions.Session) ([]*discordgo.UserGuild, error) {
	return as.discord.FetchCurrentUserGuilds(ctx, session.AccessToken)
}

// CanManageGuild reports whether the session's user may configure the guild:
// they must appear in the guild list as owner or with the Manage Server or
// Administrator permission.
func (as *AuthorizationService) CanManageGuild(ctx context.Context, session sessions.Session, guildID string) (bool, error) {
	guilds, err := as.discord.FetchCurrentUserGuilds(ctx, session.AccessToken)
	if err != nil {
		return false, errors.Wrap(err, "[CanManageGuild] fetching guild list")
	}

	for _, guild := range guilds {
		if guild.ID != guildID {
			continue
		}
		if guild.Owner {
			return true, nil
		}
		return guild.Permissions&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0, nil
	}
	return false, nil
}

// consumeState validates the callback state and burns it: a state is only
// ever exchangeable once, and only within the configured timeout.
func (as *AuthorizationService) consumeState(state string) error {
	if state == "" {
		return apperrors.ErrInvalidState
	}

	flowState, err := as.repos.FlowState.Get(state)
	if err != nil {
		return apperrors.Wrapf(apperrors.ErrInvalidState, "unknown state")
	}
	_ = as.repos.FlowState.Delete(state)

	if as.nowTime().Sub(flowState.CreatedAt) > as.stateTimeout {
		return apperrors.Wrapf(apperrors.ErrInvalidState, "state issued too long ago")
	}
	return nil
}

func generateState() (string, error) {
	buf := make([]byte, stateGenerationLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
