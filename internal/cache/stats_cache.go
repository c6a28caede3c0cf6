// Package cache provides the Redis-backed user statistics snapshot cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apixa25/XHere-Web-sub000/internal/config"
	"github.com/Apixa25/XHere-Web-sub000/internal/models"
	"github.com/Apixa25/XHere-Web-sub000/pkg/logger"
)

// NewClient creates and pings a Redis client.
func NewClient(cfg *config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().Str("addr", cfg.Addr()).Msg("Connected to Redis")
	return client, nil
}

// StatsCache caches UserStats snapshots with a short TTL. The vote ledger
// invalidates entries after each cast, so a hit is at worst TTL-stale for
// changes made by other paths.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a stats cache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(userID uint) string {
	return fmt.Sprintf("stats:user:%d", userID)
}

// Get returns the cached snapshot, or nil on a miss.
func (c *StatsCache) Get(ctx context.Context, userID uint) (*models.UserStats, error) {
	data, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stats cache: %w", err)
	}

	var stats models.UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode cached stats: %w", err)
	}
	return &stats, nil
}

// Set stores a snapshot with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, userID uint, stats *models.UserStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	if err := c.client.Set(ctx, statsKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stats cache: %w", err)
	}
	return nil
}

// Invalidate drops a user's cached snapshot.
func (c *StatsCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, statsKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stats cache: %w", err)
	}
	return nil
}
