package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/forkspot/forkspot-backend/config"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var client *redis.Client

const revokedTokenPrefix = "revoked_token:"

// Init initializes the Redis connection
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance, nil when Redis is unavailable
func GetClient() *redis.Client {
	return client
}

// RevokeToken blacklists a token until its natural expiry. Best effort: a
// nil client (Redis down or not configured) is a no-op.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if client == nil || ttl <= 0 {
		return nil
	}
	return client.Set(ctx, revokedTokenPrefix+token, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token has been blacklisted. Lookup
// failures are treated as not revoked so that auth degrades open when
// Redis is unavailable.
func IsTokenRevoked(ctx context.Context, token string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, revokedTokenPrefix+token).Result()
	if err != nil {
		logger.Warn("Failed to check token revocation", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return n > 0
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}
