package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/listforge/backend/internal/application/generation"
	"github.com/listforge/backend/internal/domain/shared"
)

// progressTTL keeps finished-batch snapshots around long enough for pollers
// to pick up the terminal state before the key expires.
const progressTTL = 2 * time.Hour

// RedisProgressCache implements the batch ProgressCache using Redis, so
// progress polls are served without hitting the primary store and survive
// across API instances.
type RedisProgressCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisProgressCache creates a new Redis-based progress cache
func NewRedisProgressCache(cfg RedisConfig) (*RedisProgressCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProgressCache{
		client:    client,
		keyPrefix: "batch:progress:",
	}, nil
}

// NewRedisProgressCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisProgressCacheWithClient(client *redis.Client, keyPrefix string) *RedisProgressCache {
	if keyPrefix == "" {
		keyPrefix = "batch:progress:"
	}
	return &RedisProgressCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// SetProgress stores the latest progress snapshot for a batch
func (c *RedisProgressCache) SetProgress(ctx context.Context, progress *generation.BatchJobResponse) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal batch progress: %w", err)
	}

	key := c.keyPrefix + progress.ID.String()
	if err := c.client.Set(ctx, key, data, progressTTL).Err(); err != nil {
		return fmt.Errorf("failed to store batch progress: %w", err)
	}
	return nil
}

// GetProgress returns the cached snapshot, or shared.ErrNotFound on a miss
func (c *RedisProgressCache) GetProgress(ctx context.Context, jobID uuid.UUID) (*generation.BatchJobResponse, error) {
	key := c.keyPrefix + jobID.String()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read batch progress: %w", err)
	}

	var progress generation.BatchJobResponse
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch progress: %w", err)
	}
	return &progress, nil
}

// Close closes the Redis client
func (c *RedisProgressCache) Close() error {
	return c.client.Close()
}

// Ensure RedisProgressCache implements the ProgressCache interface
var _ generation.ProgressCache = (*RedisProgressCache)(nil)
