package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisRateCache implements RateCache using Redis. Suitable for
// distributed deployments where multiple instances share rate lookups.
type RedisRateCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRateCache creates a Redis-backed rate cache and verifies the connection
func NewRedisRateCache(cfg RedisConfig, ttl time.Duration) (*RedisRateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateCache{
		client:    client,
		keyPrefix: "settlement:rate:",
		ttl:       ttl,
	}, nil
}

// NewRedisRateCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisRateCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisRateCache {
	if keyPrefix == "" {
		keyPrefix = "settlement:rate:"
	}
	return &RedisRateCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get returns the cached rate for a currency on a given date
func (c *RedisRateCache) Get(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, c.keyPrefix+rateKey(ctx, currencyCode, date)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read cached rate: %w", err)
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt cached rate %q: %w", val, err)
	}
	return rate, true, nil
}

// Set stores a rate with the configured TTL
func (c *RedisRateCache) Set(ctx context.Context, currencyCode string, date time.Time, rate decimal.Decimal) error {
	key := c.keyPrefix + rateKey(ctx, currencyCode, date)
	if err := c.client.Set(ctx, key, rate.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rate: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}
