package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/persistence/models"
)

// GormCurrencyRegistry implements acl.CurrencyRegistry against the replicated
// currency and exchange-rate tables. The registry is read-only here; rates
// are published by an external system.
type GormCurrencyRegistry struct {
	db *gorm.DB
}

// NewGormCurrencyRegistry creates a new GormCurrencyRegistry
func NewGormCurrencyRegistry(db *gorm.DB) *GormCurrencyRegistry {
	return &GormCurrencyRegistry{db: db}
}

// GetCurrency looks up a currency by code
func (r *GormCurrencyRegistry) GetCurrency(ctx context.Context, code string) (*acl.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).
		First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainErrorf(shared.ErrCodeUnknownCurrency, "unknown currency %s", code)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FunctionalCurrency returns the currency flagged as functional
func (r *GormCurrencyRegistry) FunctionalCurrency(ctx context.Context) (*acl.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).
		First(&model, "is_functional = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrCodeUnknownCurrency, "no functional currency configured")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GetRate returns the most recent published rate for a currency effective on
// or before the given date
func (r *GormCurrencyRegistry) GetRate(ctx context.Context, code string, date time.Time) (decimal.Decimal, error) {
	var model models.ExchangeRateModel
	if err := r.db.WithContext(ctx).
		Where("currency_code = ? AND rate_date <= ?", code, date).
		Order("rate_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.NewDomainErrorf(shared.ErrCodeUnknownCurrency,
				"no exchange rate published for %s on or before %s", code, date.Format("2006-01-02"))
		}
		return decimal.Zero, err
	}
	return model.Rate, nil
}
