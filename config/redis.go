// config/redis.go
package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/clinvite/clinvite_backend/utils"
)

// ConnectRedis establishes the Redis connection used for OTP throttling.
// Returns nil when Redis is unreachable; callers treat a nil client as
// "throttling disabled" rather than refusing to start.
func ConnectRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		utils.Logger.Warnf("Redis unavailable (%v); OTP throttling disabled", err)
		return nil
	}

	utils.Logger.Info("Connected to Redis")
	return client
}
