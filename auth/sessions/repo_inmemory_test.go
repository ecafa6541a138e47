package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

func testSession() Session {
	return Session{
		AccessToken: "access-token-1",
		User: &discordgo.User{
			ID:            "1",
			Username:      "bob",
			Discriminator: "0001",
			Avatar:        "abc123",
		},
	}
}

func TestInMemoryCreateAndGet(t *testing.T) {
	repo := NewInMemoryRepo(24 * time.Hour)

	created, err := repo.Create(context.Background(), testSession())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, created.CreatedAt.Add(24*time.Hour), created.ExpiresAt)

	got, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, "access-token-1", got.AccessToken)
	require.Equal(t, "bob", got.User.Username)
}

func TestInMemoryCreateAllocatesDistinctIDs(t *testing.T) {
	repo := NewInMemoryRepo(24 * time.Hour)

	first, err := repo.Create(context.Background(), testSession())
	require.NoError(t, err)
	second, err := repo.Create(context.Background(), testSession())
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestInMemoryGetUnknownSession(t *testing.T) {
	repo := NewInMemoryRepo(24 * time.Hour)

	_, err := repo.Get(context.Background(), "no-such-session")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestInMemoryTTLEnforcedOnGet(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	repo := NewInMemoryRepo(24*time.Hour, WithNowTime(func() time.Time { return now }))

	created, err := repo.Create(context.Background(), testSession())
	require.NoError(t, err)

	// Just before the deadline the session is still live.
	now = created.CreatedAt.Add(24*time.Hour - time.Second)
	_, err = repo.Get(context.Background(), created.ID)
	require.NoError(t, err)

	// Past the deadline the session is evicted for good.
	now = created.CreatedAt.Add(24*time.Hour + time.Second)
	_, err = repo.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = repo.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestInMemoryDeleteIsIdempotent(t *testing.T) {
	repo := NewInMemoryRepo(24 * time.Hour)

	created, err := repo.Create(context.Background(), testSession())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), created.ID))
	require.NoError(t, repo.Delete(context.Background(), created.ID))
	require.NoError(t, repo.Delete(context.Background(), "never-existed"))

	_, err = repo.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}
