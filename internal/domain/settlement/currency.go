package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared/valueobject"
)

// DefaultRateTolerance is the relative deviation between a manually supplied
// rate and the registry rate above which a settlement is flagged for review.
var DefaultRateTolerance = decimal.NewFromFloat(0.05)

// Converter converts amounts between settlement, invoice and functional
// currencies using the functional currency as pivot. It owns no currency
// master data; rates are supplied by callers or the external registry.
type Converter struct {
	functionalCode string
}

// NewConverter creates a converter pivoting on the given functional currency
func NewConverter(functionalCode string) *Converter {
	if functionalCode == "" {
		functionalCode = valueobject.DefaultCurrency
	}
	return &Converter{functionalCode: functionalCode}
}

// FunctionalCurrency returns the pivot currency code
func (c *Converter) FunctionalCurrency() string {
	return c.functionalCode
}

// ToFunctional converts an amount into the functional currency using the
// given rate (units of functional currency per unit of amount's currency)
func (c *Converter) ToFunctional(amount valueobject.Money, rate decimal.Decimal) (valueobject.Money, error) {
	if amount.Currency() == c.functionalCode {
		return valueobject.NewMoney(amount.Amount(), c.functionalCode), nil
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return valueobject.Money{}, shared.NewDomainErrorf(shared.ErrCodeUnknownCurrency,
			"no positive rate to convert %s to %s", amount.Currency(), c.functionalCode)
	}
	return valueobject.NewMoney(amount.Amount().Mul(rate), c.functionalCode), nil
}

// Convert converts an amount into another currency, pivoting through the
// functional currency. fromRate and toRate express each currency in
// functional units; a currency equal to the functional one uses rate 1.
func (c *Converter) Convert(amount valueobject.Money, toCurrency string, fromRate, toRate decimal.Decimal) (valueobject.Money, error) {
	if amount.Currency() == toCurrency {
		return amount, nil
	}

	functional, err := c.ToFunctional(amount, fromRate)
	if err != nil {
		return valueobject.Money{}, err
	}
	if toCurrency == c.functionalCode {
		return functional, nil
	}
	if toRate.LessThanOrEqual(decimal.Zero) {
		return valueobject.Money{}, shared.NewDomainErrorf(shared.ErrCodeUnknownCurrency,
			"no positive rate to convert %s to %s", c.functionalCode, toCurrency)
	}
	return valueobject.NewMoney(functional.Amount().Div(toRate), toCurrency), nil
}

// FXDifference computes the exchange gain or loss of one allocation:
// the functional amount actually settled minus the functional value the
// applied amount carried when the invoice was posted. Positive is a loss.
func (c *Converter) FXDifference(appliedAmount, functionalAtSettlement, rateAtPosting decimal.Decimal) decimal.Decimal {
	return functionalAtSettlement.Sub(appliedAmount.Mul(rateAtPosting))
}

// RateDeviation returns the relative deviation of a manual rate from the
// registry rate. A zero or missing registry rate yields zero deviation.
func RateDeviation(manualRate, registryRate decimal.Decimal) decimal.Decimal {
	if registryRate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return manualRate.Sub(registryRate).Abs().Div(registryRate)
}

// RateDeviationExceeds reports whether the manual rate deviates from the
// registry rate beyond the tolerance. Deviation flags, it never blocks.
func RateDeviationExceeds(manualRate, registryRate, tolerance decimal.Decimal) bool {
	return RateDeviation(manualRate, registryRate).GreaterThan(tolerance)
}
