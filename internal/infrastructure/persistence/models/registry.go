package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
)

// CurrencyModel mirrors the currency master data published by the external
// registry. The settlement engine reads it and never writes it.
type CurrencyModel struct {
	Code         string `gorm:"type:varchar(3);primary_key"`
	Symbol       string `gorm:"type:varchar(10);not null"`
	IsFunctional bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the persistence model to an acl Currency
func (m *CurrencyModel) ToDomain() *acl.Currency {
	return &acl.Currency{
		Code:         m.Code,
		Symbol:       m.Symbol,
		IsFunctional: m.IsFunctional,
	}
}

// ExchangeRateModel mirrors a published exchange rate. The rate converts one
// unit of the currency into the functional currency, effective on RateDate.
type ExchangeRateModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	CurrencyCode string          `gorm:"type:varchar(3);not null;uniqueIndex:idx_rate_currency_date,priority:1"`
	RateDate     time.Time       `gorm:"not null;uniqueIndex:idx_rate_currency_date,priority:2"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,8);not null"`
}

// TableName returns the table name for GORM
func (ExchangeRateModel) TableName() string {
	return "exchange_rates"
}

// CounterpartyModel mirrors the counterparty directory. Read-only here.
type CounterpartyModel struct {
	ID   uuid.UUID            `gorm:"type:uuid;primary_key"`
	Name string               `gorm:"type:varchar(200);not null"`
	Kind acl.CounterpartyKind `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// ToDomain converts the persistence model to an acl Counterparty
func (m *CounterpartyModel) ToDomain() *acl.Counterparty {
	return &acl.Counterparty{
		ID:   m.ID,
		Name: m.Name,
		Kind: m.Kind,
	}
}
