package auth_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/exositeweb/exobot-backend/auth"
	"github.com/exositeweb/exobot-backend/auth/flowstate"
	"github.com/exositeweb/exobot-backend/auth/sessions"
	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

const (
	testCode        = "callback-code-1"
	testAccessToken = "access-token-1"
)

// testOAuthConfig implements config.OAuthConfig with fixed values.
type testOAuthConfig struct{}

func (testOAuthConfig) GetDiscordClientID() string { return "client-123" }
func (testOAuthConfig) GetDiscordClientSecret() string { return "secret-456" }
func (testOAuthConfig) GetRedirectURI() string { return "https://dashboard.example.com/cb" }
func (testOAuthConfig) GetScopes() []string { return []string{"identify", "guilds"} }
func (testOAuthConfig) GetDiscordAPIBase() string { return "https://discord.test/api" }
func (testOAuthConfig) GetAuthorizeURL() string { return "https://discord.test/authorize" }
func (testOAuthConfig) GetTokenURL() string { return "https://discord.test/token" }
func (testOAuthConfig) GetStateTimeout() time.Duration { return 15 * time.Minute }
func (testOAuthConfig) GetUpstreamTimeout() time.Duration { return time.Second }

// fakeDiscord implements auth.Discord with overridable behaviour.
type fakeDiscord struct {
	exchangeCalls int
	exchangeFunc  func(ctx context.Context, code string) (*oauth2.Token, error)
	userFunc      func(ctx context.Context, accessToken string) (*discordgo.User, error)
	guildsFunc    func(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error)
}

func (f *fakeDiscord) AuthCodeURL(state string) string {
	return "https://discord.test/authorize?response_type=code&state=" + url.QueryEscape(state)
}

func (f *fakeDiscord) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	f.exchangeCalls++
	if f.exchangeFunc != nil {
		return f.exchangeFunc(ctx, code)
	}
	return &oauth2.Token{AccessToken: testAccessToken}, nil
}

func (f *fakeDiscord) FetchCurrentUser(ctx context.Context, accessToken string) (*discordgo.User, error) {
	if f.userFunc != nil {
		return f.userFunc(ctx, accessToken)
	}
	return &discordgo.User{ID: "1", Username: "bob", Discriminator: "0001"}, nil
}

func (f *fakeDiscord) FetchCurrentUserGuilds(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error) {
	if f.guildsFunc != nil {
		return f.guildsFunc(ctx, accessToken)
	}
	return nil, nil
}

// countingSessionRepo records how many sessions were ever created.
type countingSessionRepo struct {
	sessions.Repo
	creates int
}

func (c *countingSessionRepo) Create(ctx context.Context, session sessions.Session) (sessions.Session, error) {
	c.creates++
	return c.Repo.Create(ctx, session)
}

// testFixture holds all test dependencies
type testFixture struct {
	discord     *fakeDiscord
	sessionRepo *countingSessionRepo
	stateRepo   flowstate.Repo
	service     *auth.AuthorizationService
	now         time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		discord:     &fakeDiscord{},
		sessionRepo: &countingSessionRepo{Repo: sessions.NewInMemoryRepo(24 * time.Hour)},
		stateRepo:   flowstate.NewInMemoryRepo(),
		now:         time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	service, err := auth.NewAuthorizationService(
		auth.Repos{Sessions: f.sessionRepo, FlowState: f.stateRepo},
		f.discord,
		testOAuthConfig{},
		auth.WithNowTime(func() time.Time { return f.now }),
	)
	require.NoError(t, err)
	f.service = service
	return f
}

// beginAndExtractState runs BeginAuthorization and pulls the state out of the
// returned authorize URL.
func (f *testFixture) beginAndExtractState(t *testing.T) string {
	t.Helper()

	authURL, err := f.service.BeginAuthorization(context.Background())
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestBeginAuthorizationStoresFreshState(t *testing.T) {
	f := setupTestFixture(t)

	first := f.beginAndExtractState(t)
	second := f.beginAndExtractState(t)
	require.NotEqual(t, first, second)

	stored, err := f.stateRepo.Get(first)
	require.NoError(t, err)
	require.Equal(t, f.now, stored.CreatedAt)
}

func TestCompleteAuthorizationSuccess(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	session, err := f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.Equal(t, testAccessToken, session.AccessToken)
	require.Equal(t, "bob", session.User.Username)

	stored, err := f.sessionRepo.Get(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, session.ID, stored.ID)
}

func TestCompleteAuthorizationMissingCode(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	_, err := f.service.CompleteAuthorization(context.Background(), "", state)
	require.ErrorIs(t, err, apperrors.ErrMissingCode)
	require.Zero(t, f.discord.exchangeCalls)
	require.Zero(t, f.sessionRepo.creates)
}

func TestCompleteAuthorizationUnknownState(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.CompleteAuthorization(context.Background(), testCode, "never-issued")
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
	require.Zero(t, f.discord.exchangeCalls)
}

func TestCompleteAuthorizationExpiredState(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	f.now = f.now.Add(16 * time.Minute)

	_, err := f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
	require.Zero(t, f.discord.exchangeCalls)
}

func TestCompleteAuthorizationStateIsSingleUse(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	_, err := f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.NoError(t, err)

	_, err = f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCompleteAuthorizationExchangeRejected(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	f.discord.exchangeFunc = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return nil, apperrors.Wrapf(apperrors.ErrTokenExchangeFailed, "token endpoint returned 400")
	}

	_, err := f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.ErrorIs(t, err, apperrors.ErrTokenExchangeFailed)
	require.Zero(t, f.sessionRepo.creates)
	// The attempted code must not surface in the error.
	require.NotContains(t, err.Error(), testCode)
}

func TestCompleteAuthorizationProfileFetchFails(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	f.discord.userFunc = func(ctx context.Context, accessToken string) (*discordgo.User, error) {
		return nil, apperrors.Wrapf(apperrors.ErrUpstreamStatus, "GET /users/@me returned 500")
	}

	_, err := f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.ErrorIs(t, err, apperrors.ErrProfileFetchFailed)
	// No half-populated session is left behind.
	require.Zero(t, f.sessionRepo.creates)
}

func TestLogoutIsIdempotent(t *testing.T) {
	f := setupTestFixture(t)
	state := f.beginAndExtractState(t)

	session, err := f.service.CompleteAuthorization(context.Background(), testCode, state)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), session.ID))
	require.NoError(t, f.service.Logout(context.Background(), session.ID))
	require.NoError(t, f.service.Logout(context.Background(), "never-existed"))
	require.NoError(t, f.service.Logout(context.Background(), ""))

	_, err = f.sessionRepo.Get(context.Background(), session.ID)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestCanManageGuild(t *testing.T) {
	tests := []struct {
		name    string
		guilds  []*discordgo.UserGuild
		guildID string
		want    bool
	}{
		{
			name:    "owner",
			guilds:  []*discordgo.UserGuild{{ID: "42", Owner: true}},
			guildID: "42",
			want:    true,
		},
		{
			name:    "manage server permission",
			guilds:  []*discordgo.UserGuild{{ID: "42", Permissions: discordgo.PermissionManageServer}},
			guildID: "42",
			want:    true,
		},
		{
			name:    "administrator permission",
			guilds:  []*discordgo.UserGuild{{ID: "42", Permissions: discordgo.PermissionAdministrator}},
			guildID: "42",
			want:    true,
		},
		{
			name:    "plain member",
			guilds:  []*discordgo.UserGuild{{ID: "42", Permissions: discordgo.PermissionSendMessages}},
			guildID: "42",
			want:    false,
		},
		{
			name:    "not a member",
			guilds:  []*discordgo.UserGuild{{ID: "42", Owner: true}},
			guildID: "43",
			want:    false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTestFixture(t)
			f.discord.guildsFunc = func(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error) {
				return tc.guilds, nil
			}

			got, err := f.service.CanManageGuild(context.Background(), sessions.Session{AccessToken: testAccessToken}, tc.guildID)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCanManageGuildUpstreamFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.discord.guildsFunc = func(ctx context.Context, accessToken string) ([]*discordgo.UserGuild, error) {
		return nil, apperrors.Wrapf(apperrors.ErrUpstreamUnavailable, "GET /users/@me/guilds")
	}

	_, err := f.service.CanManageGuild(context.Background(), sessions.Session{AccessToken: testAccessToken}, "42")
	require.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}
