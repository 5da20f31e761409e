package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/supermart/supermart-backend/config"
	"github.com/supermart/supermart-backend/pkg/logger"
)

var client *redis.Client

// Init initializes the Redis connection used as the refresh-token deny cache.
// The relational store stays the source of truth; Redis only short-circuits
// checks for tokens already known to be revoked.
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
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance (nil when Redis is disabled)
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

// BlacklistJTI marks a refresh token id as revoked until its natural expiry
func BlacklistJTI(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || ttl <= 0 {
		return nil
	}

	key := fmt.Sprintf("blacklist:refresh:%s", jti)
	if err := client.Set(ctx, key, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist refresh token", err, nil)
		return err
	}
	return nil
}

// IsJTIBlacklisted checks whether a refresh token id is in the deny cache
func IsJTIBlacklisted(ctx context.Context, jti string) (bool, error) {
	if client == nil {
		return false, nil
	}

	key := fmt.Sprintf("blacklist:refresh:%s", jti)
	val, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check refresh token blacklist", err, nil)
		return false, err
	}
	return val == "revoked", nil
}
