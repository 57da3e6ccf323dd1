package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
)

// RateCache stores resolved exchange rates keyed by settlement scope,
// currency and rate date. Entries are scoped to one settlement operation
// (see acl.WithRateScope): a rate resolved for one settlement is never
// served to an unrelated one, and the TTL only bounds how long a single
// operation may hold on to its resolution.
type RateCache interface {
	// Get returns the cached rate for a currency on a given date.
	// The second return value is false on a cache miss.
	Get(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, bool, error)

	// Set stores a rate with the configured TTL
	Set(ctx context.Context, currencyCode string, date time.Time, rate decimal.Decimal) error

	// Close releases any resources held by the cache
	Close() error
}

// rateKey builds a cache key from the settlement scope on the context,
// currency code and rate date
func rateKey(ctx context.Context, currencyCode string, date time.Time) string {
	return fmt.Sprintf("%s:%s:%s", acl.RateScope(ctx), currencyCode, date.Format("2006-01-02"))
}
