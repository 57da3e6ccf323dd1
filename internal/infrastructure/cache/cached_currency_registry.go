package cache

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
)

// CachedCurrencyRegistry wraps a CurrencyRegistry with a RateCache.
// Currency metadata lookups pass through; only rate lookups are cached,
// since those dominate settlement traffic.
type CachedCurrencyRegistry struct {
	inner  acl.CurrencyRegistry
	cache  RateCache
	logger *zap.Logger
}

// CachedCurrencyRegistryOption is a functional option
type CachedCurrencyRegistryOption func(*CachedCurrencyRegistry)

// WithRegistryLogger sets the logger for the cached registry
func WithRegistryLogger(logger *zap.Logger) CachedCurrencyRegistryOption {
	return func(r *CachedCurrencyRegistry) {
		r.logger = logger
	}
}

// NewCachedCurrencyRegistry decorates a registry with rate caching
func NewCachedCurrencyRegistry(inner acl.CurrencyRegistry, cache RateCache, opts ...CachedCurrencyRegistryOption) *CachedCurrencyRegistry {
	r := &CachedCurrencyRegistry{
		inner:  inner,
		cache:  cache,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// GetCurrency delegates to the underlying registry
func (r *CachedCurrencyRegistry) GetCurrency(ctx context.Context, code string) (*acl.Currency, error) {
	return r.inner.GetCurrency(ctx, code)
}

// FunctionalCurrency delegates to the underlying registry
func (r *CachedCurrencyRegistry) FunctionalCurrency(ctx context.Context) (*acl.Currency, error) {
	return r.inner.FunctionalCurrency(ctx)
}

// GetRate resolves a rate through the cache. Entries are shared only within
// the settlement scope on the context; a context without a scope goes
// straight to the registry. Cache failures are logged and treated as misses
// so a broken cache never blocks settlement entry.
func (r *CachedCurrencyRegistry) GetRate(ctx context.Context, code string, date time.Time) (decimal.Decimal, error) {
	if acl.RateScope(ctx) == "" {
		return r.inner.GetRate(ctx, code, date)
	}

	rate, hit, err := r.cache.Get(ctx, code, date)
	if err != nil {
		r.logger.Warn("rate cache read failed",
			zap.String("currency", code),
			zap.Error(err),
		)
	} else if hit {
		return rate, nil
	}

	rate, err = r.inner.GetRate(ctx, code, date)
	if err != nil {
		return decimal.Zero, err
	}

	if cacheErr := r.cache.Set(ctx, code, date, rate); cacheErr != nil {
		r.logger.Warn("rate cache write failed",
			zap.String("currency", code),
			zap.Error(cacheErr),
		)
	}

	return rate, nil
}
