package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const settingsKeyPrefix = "guild_settings:"

// Config holds configuration for the Redis settings repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repo interface using Redis. Documents carry
// no expiry: they live until overwritten.
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed settings repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// Get returns the stored document for the guild, or an empty object.
func (r *redisRepository) Get(ctx context.Context, guildID string) (json.RawMessage, error) {
	if guildID == "" {
		return nil, errors.New("guildID cannot be empty")
	}

	settingsKey := fmt.Sprintf("%s%s", settingsKeyPrefix, guildID)
	doc, err := r.client.Get(ctx, settingsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return EmptyDocument, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return json.RawMessage(doc), nil
}

// Put replaces the guild's document wholesale.
func (r *redisRepository) Put(ctx context.Context, guildID string, doc json.RawMessage) error {
	if guildID == "" {
		return errors.New("guildID cannot be empty")
	}

	settingsKey := fmt.Sprintf("%s%s", settingsKeyPrefix, guildID)
	if err := r.client.Set(ctx, settingsKey, string(doc), 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
