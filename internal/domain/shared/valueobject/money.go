package valueobject

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the functional currency of the ledger
const DefaultCurrency = "DOP"

// Money represents a monetary amount in a specific currency.
// Money values are immutable; arithmetic returns new values.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a new Money value
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{
		amount:   amount,
		currency: normalizeCurrency(currency),
	}
}

// NewMoneyFromFloat creates Money from a float64 amount
func NewMoneyFromFloat(amount float64, currency string) Money {
	return NewMoney(decimal.NewFromFloat(amount), currency)
}

// NewMoneyFromString creates Money from a string amount
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoney(d, currency), nil
}

// ZeroMoney creates a zero amount in the given currency
func ZeroMoney(currency string) Money {
	return NewMoney(decimal.Zero, currency)
}

func normalizeCurrency(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	if m.currency == "" {
		return DefaultCurrency
	}
	return m.currency
}

// Float64 returns the amount as float64
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive reports whether the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// SameCurrency reports whether both values share a currency
func (m Money) SameCurrency(other Money) bool {
	return m.Currency() == other.Currency()
}

// Add returns the sum of two Money values
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, fmt.Errorf("cannot add %s to %s", other.Currency(), m.Currency())
	}
	return NewMoney(m.amount.Add(other.amount), m.Currency()), nil
}

// Sub returns the difference of two Money values
func (m Money) Sub(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, fmt.Errorf("cannot subtract %s from %s", other.Currency(), m.Currency())
	}
	return NewMoney(m.amount.Sub(other.amount), m.Currency()), nil
}

// Mul returns the amount multiplied by a factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(factor), m.Currency())
}

// Neg returns the negated amount
func (m Money) Neg() Money {
	return NewMoney(m.amount.Neg(), m.Currency())
}

// Cmp compares two Money values; it returns an error on currency mismatch
func (m Money) Cmp(other Money) (int, error) {
	if !m.SameCurrency(other) {
		return 0, fmt.Errorf("cannot compare %s with %s", m.Currency(), other.Currency())
	}
	return m.amount.Cmp(other.amount), nil
}

// LessThan reports whether m < other, assuming same currency
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// GreaterThan reports whether m > other, assuming same currency
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// Equal reports whether both amount and currency match
func (m Money) Equal(other Money) bool {
	return m.SameCurrency(other) && m.amount.Equal(other.amount)
}

// Round returns the amount rounded to the given number of decimal places
func (m Money) Round(places int32) Money {
	return NewMoney(m.amount.Round(places), m.Currency())
}

// String renders the amount with its currency code
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.Currency())
}

// Value implements driver.Valuer, storing only the numeric amount
func (m Money) Value() (driver.Value, error) {
	return m.amount.String(), nil
}

// Scan implements sql.Scanner
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.amount = decimal.Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	m.amount = d
	return nil
}
