package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vitalbites/vitalbites-backend/config"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// Allow applies a fixed-window rate limit for the given key. It returns
// whether the request is allowed and, when denied, the seconds remaining
// until the window resets.
func Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	if client == nil {
		// Redis unavailable - fail open, rate limiting is best effort
		return true, 0, nil
	}

	fullKey := fmt.Sprintf("ratelimit:%s", key)

	count, err := client.Incr(ctx, fullKey).Result()
	if err != nil {
		logger.Error("Failed to increment rate limit counter", err, map[string]interface{}{
			"key": key,
		})
		return true, 0, err
	}

	if count == 1 {
		if err := client.Expire(ctx, fullKey, window).Err(); err != nil {
			logger.Error("Failed to set rate limit expiry", err, map[string]interface{}{
				"key": key,
			})
		}
	}

	if count > int64(limit) {
		ttl, err := client.TTL(ctx, fullKey).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}
		return false, int(ttl.Seconds()), nil
	}

	return true, 0, nil
}
