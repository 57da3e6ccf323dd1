package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// rateEntry represents a cached rate with expiration
type rateEntry struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// InMemoryRateCache implements RateCache using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryRateCache struct {
	mu        sync.RWMutex
	entries   map[string]rateEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRateCache creates an in-memory rate cache with the given TTL.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryRateCache(ttl time.Duration) *InMemoryRateCache {
	c := &InMemoryRateCache{
		entries:  make(map[string]rateEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached rate if present and not expired
func (c *InMemoryRateCache) Get(ctx context.Context, currencyCode string, date time.Time) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[rateKey(ctx, currencyCode, date)]
	if !exists || time.Now().After(e.expiresAt) {
		return decimal.Zero, false, nil
	}
	return e.rate, true, nil
}

// Set stores a rate with the cache's TTL
func (c *InMemoryRateCache) Set(ctx context.Context, currencyCode string, date time.Time, rate decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[rateKey(ctx, currencyCode, date)] = rateEntry{
		rate:      rate,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryRateCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryRateCache) cleanupLoop() {
	defer c.wg.Done()

	interval := c.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryRateCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
