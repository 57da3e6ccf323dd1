package cache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/config"
)

// RateCacheFactory creates rate caches based on configuration
type RateCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RateCacheFactoryOption is a functional option for configuring the factory
type RateCacheFactoryOption func(*RateCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RateCacheFactoryOption {
	return func(f *RateCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RateCacheFactoryOption {
	return func(f *RateCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRateCacheFactory creates a new factory
func NewRateCacheFactory(cfg config.RedisConfig, ttl time.Duration, opts ...RateCacheFactoryOption) *RateCacheFactory {
	f := &RateCacheFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed rate cache
func (f *RateCacheFactory) CreateRedisCache() (RateCache, error) {
	cache, err := NewRedisRateCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis rate cache: %w", err)
	}
	return cache, nil
}

// CreateInMemoryCache creates an in-memory rate cache.
// Suitable for single-instance deployments and testing.
func (f *RateCacheFactory) CreateInMemoryCache() RateCache {
	return NewInMemoryRateCache(f.ttl)
}

// CreateCache tries Redis first and falls back to in-memory if Redis is
// unavailable and fallback is allowed.
func (f *RateCacheFactory) CreateCache() (RateCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis rate cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for rate cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory rate cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
