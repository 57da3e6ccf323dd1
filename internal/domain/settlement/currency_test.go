package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared/valueobject"
)

func TestConverterToFunctional(t *testing.T) {
	c := NewConverter("DOP")

	got, err := c.ToFunctional(valueobject.NewMoneyFromFloat(100, "USD"), decimal.NewFromFloat(58.5))
	require.NoError(t, err)
	assert.Equal(t, "DOP", got.Currency())
	assert.True(t, got.Amount().Equal(decimal.NewFromInt(5850)))

	// already functional, rate is ignored
	got, err = c.ToFunctional(valueobject.NewMoneyFromFloat(100, "DOP"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.Amount().Equal(decimal.NewFromInt(100)))
}

func TestConverterToFunctionalRequiresRate(t *testing.T) {
	c := NewConverter("DOP")

	_, err := c.ToFunctional(valueobject.NewMoneyFromFloat(100, "USD"), decimal.Zero)
	require.Error(t, err)

	_, err = c.ToFunctional(valueobject.NewMoneyFromFloat(100, "USD"), decimal.NewFromInt(-1))
	require.Error(t, err)
}

func TestConverterConvertPivotsThroughFunctional(t *testing.T) {
	c := NewConverter("DOP")

	// 100 USD at 58 DOP/USD into EUR at 64 DOP/EUR
	got, err := c.Convert(valueobject.NewMoneyFromFloat(100, "USD"), "EUR",
		decimal.NewFromInt(58), decimal.NewFromInt(64))
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency())
	assert.True(t, got.Amount().Equal(decimal.NewFromInt(5800).Div(decimal.NewFromInt(64))))

	// same currency is a no-op
	same, err := c.Convert(valueobject.NewMoneyFromFloat(42, "USD"), "USD", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, same.Amount().Equal(decimal.NewFromInt(42)))
}

func TestFXDifferenceSignConvention(t *testing.T) {
	c := NewConverter("DOP")

	// invoice of 100 USD posted at 58.0, settled at 58.5: 5850 - 5800 = +50 loss
	applied := decimal.NewFromInt(100)
	functional := applied.Mul(decimal.NewFromFloat(58.5))
	fx := c.FXDifference(applied, functional, decimal.NewFromFloat(58.0))
	assert.True(t, fx.Equal(decimal.NewFromInt(50)))

	// settled below the posting rate is a gain, negative
	functional = applied.Mul(decimal.NewFromFloat(57.0))
	fx = c.FXDifference(applied, functional, decimal.NewFromFloat(58.0))
	assert.True(t, fx.Equal(decimal.NewFromInt(-100)))
}

func TestRateDeviation(t *testing.T) {
	tests := []struct {
		name     string
		manual   float64
		registry float64
		exceeds  bool
	}{
		{"identical rates", 58.0, 58.0, false},
		{"within tolerance", 58.5, 58.0, false},
		{"just beyond tolerance", 61.0, 58.0, true},
		{"far beyond tolerance", 70.0, 58.0, true},
		{"deviation below registry", 54.0, 58.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RateDeviationExceeds(decimal.NewFromFloat(tt.manual), decimal.NewFromFloat(tt.registry), DefaultRateTolerance)
			assert.Equal(t, tt.exceeds, got)
		})
	}
}

func TestRateDeviationWithoutRegistryRate(t *testing.T) {
	// no registry rate means nothing to compare against
	assert.True(t, RateDeviation(decimal.NewFromInt(58), decimal.Zero).IsZero())
	assert.False(t, RateDeviationExceeds(decimal.NewFromInt(58), decimal.Zero, DefaultRateTolerance))
}
