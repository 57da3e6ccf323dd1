package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
)

func TestInMemoryRateCache_SetAndGet(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rate := decimal.NewFromFloat(58.45)

	require.NoError(t, cache.Set(ctx, "USD", date, rate))

	got, hit, err := cache.Get(ctx, "USD", date)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, rate.Equal(got))
}

func TestInMemoryRateCache_MissOnUnknownKey(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	_, hit, err := cache.Get(context.Background(), "EUR", time.Now())
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryRateCache_KeyedByDate(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	ctx := context.Background()
	day1 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Set(ctx, "USD", day1, decimal.NewFromInt(58)))

	_, hit, err := cache.Get(ctx, "USD", day2)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInMemoryRateCache_ExpiredEntryIsMiss(t *testing.T) {
	cache := NewInMemoryRateCache(-1 * time.Second)
	defer cache.Close()

	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, cache.Set(ctx, "USD", date, decimal.NewFromInt(58)))

	_, hit, err := cache.Get(ctx, "USD", date)
	require.NoError(t, err)
	assert.False(t, hit)
}

// mockRegistry backs the decorator tests
type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetCurrency(ctx context.Context, code string) (*acl.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.Currency), args.Error(1)
}

func (m *mockRegistry) FunctionalCurrency(ctx context.Context) (*acl.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*acl.Currency), args.Error(1)
}

func (m *mockRegistry) GetRate(ctx context.Context, code string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, code, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func TestCachedCurrencyRegistry_SecondLookupServedFromCache(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	inner := new(mockRegistry)
	registry := NewCachedCurrencyRegistry(inner, cache)

	ctx := acl.WithRateScope(context.Background())
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inner.On("GetRate", ctx, "USD", date).Return(decimal.NewFromFloat(58.45), nil).Once()

	first, err := registry.GetRate(ctx, "USD", date)
	require.NoError(t, err)
	second, err := registry.GetRate(ctx, "USD", date)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	inner.AssertNumberOfCalls(t, "GetRate", 1)
}

func TestCachedCurrencyRegistry_ScopesNeverShareEntries(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	inner := new(mockRegistry)
	registry := NewCachedCurrencyRegistry(inner, cache)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inner.On("GetRate", mock.Anything, "USD", date).Return(decimal.NewFromFloat(58.45), nil)

	// two unrelated settlements each resolve against the registry
	_, err := registry.GetRate(acl.WithRateScope(context.Background()), "USD", date)
	require.NoError(t, err)
	_, err = registry.GetRate(acl.WithRateScope(context.Background()), "USD", date)
	require.NoError(t, err)

	inner.AssertNumberOfCalls(t, "GetRate", 2)
}

func TestCachedCurrencyRegistry_NoScopeBypassesCache(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	inner := new(mockRegistry)
	registry := NewCachedCurrencyRegistry(inner, cache)

	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inner.On("GetRate", ctx, "USD", date).Return(decimal.NewFromFloat(58.45), nil)

	_, err := registry.GetRate(ctx, "USD", date)
	require.NoError(t, err)
	_, err = registry.GetRate(ctx, "USD", date)
	require.NoError(t, err)

	inner.AssertNumberOfCalls(t, "GetRate", 2)
}

func TestCachedCurrencyRegistry_RegistryErrorPropagates(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	inner := new(mockRegistry)
	registry := NewCachedCurrencyRegistry(inner, cache)

	ctx := context.Background()
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	inner.On("GetRate", ctx, "XYZ", date).Return(decimal.Zero, errors.New("no rate published"))

	_, err := registry.GetRate(ctx, "XYZ", date)
	assert.Error(t, err)
}

func TestCachedCurrencyRegistry_MetadataBypassesCache(t *testing.T) {
	cache := NewInMemoryRateCache(10 * time.Minute)
	defer cache.Close()

	inner := new(mockRegistry)
	registry := NewCachedCurrencyRegistry(inner, cache)

	ctx := context.Background()
	inner.On("GetCurrency", ctx, "USD").Return(&acl.Currency{Code: "USD", Symbol: "$"}, nil)
	inner.On("FunctionalCurrency", ctx).Return(&acl.Currency{Code: "DOP", IsFunctional: true}, nil)

	currency, err := registry.GetCurrency(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", currency.Code)

	functional, err := registry.FunctionalCurrency(ctx)
	require.NoError(t, err)
	assert.True(t, functional.IsFunctional)
}
