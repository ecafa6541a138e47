package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/exositeweb/exobot-backend/internal/errors"
)

const sessionKeyPrefix = "session:"

// Config holds configuration for the Redis session repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Fixed session lifetime from creation
	TTL time.Duration
}

// redisRepository implements the Repo interface using Redis. Expiry is
// delegated to Redis key TTLs, so the record disappears exactly when the
// session does.
type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a new Redis-backed session repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
		ttl:    cfg.TTL,
	}, nil
}

// Create persists the session under a freshly allocated identifier with the
// configured TTL.
func (r *redisRepository) Create(ctx context.Context, session Session) (Session, error) {
	if session.AccessToken == "" {
		return Session{}, errors.New("access token cannot be empty")
	}

	now := time.Now()
	session.ID = uuid.New().String()
	session.CreatedAt = now
	session.ExpiresAt = now.Add(r.ttl)

	sessionJSON, err := json.Marshal(session)
	if err != nil {
		return Session{}, fmt.Errorf("failed to marshal session: %w", err)
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, session.ID)
	if err := r.client.Set(ctx, sessionKey, sessionJSON, r.ttl).Err(); err != nil {
		return Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Get retrieves a session by ID. A session past its TTL has already been
// dropped by Redis and reads back as ErrSessionNotFound.
func (r *redisRepository) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, apperrors.ErrSessionNotFound
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
	sessionJSON, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return Session{}, apperrors.ErrSessionNotFound
		}
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	// Guard against a key whose TTL was lost (e.g. a manual PERSIST).
	if time.Now().After(session.ExpiresAt) {
		_ = r.client.Del(ctx, sessionKey).Err()
		return Session{}, apperrors.ErrSessionExpired
	}

	return session, nil
}

// Delete removes a session; deleting an absent session succeeds.
func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	sessionKey := fmt.Sprintf("%s%s", sessionKeyPrefix, sessionID)
	if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
