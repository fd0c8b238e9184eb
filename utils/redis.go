package utils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/churchflow/churchflow-backend/config"
)

var redisClient *redis.Client

// ErrCacheMiss is returned when a key is absent from Redis
var ErrCacheMiss = errors.New("cache miss")

// InitRedis connects the shared Redis client used for refresh tokens and
// the availability snapshot cache
func InitRedis(cfg *config.Config) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return redisClient.Ping(ctx).Err()
}

// Redis returns the shared client (nil before InitRedis)
func Redis() *redis.Client {
	return redisClient
}

// CacheSet stores a string value with TTL
func CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	return redisClient.Set(ctx, key, value, ttl).Err()
}

// CacheGet fetches a string value, ErrCacheMiss when absent
func CacheGet(ctx context.Context, key string) (string, error) {
	val, err := redisClient.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

// CacheDel removes keys, ignoring missing ones
func CacheDel(ctx context.Context, keys ...string) error {
	return redisClient.Del(ctx, keys...).Err()
}
