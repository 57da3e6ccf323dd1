// Package acl declares the interfaces of external collaborators the
// settlement engine consumes but does not implement: the currency and
// exchange-rate registry and the counterparty directory.
package acl

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is a currency as published by the external registry. Exactly one
// currency is functional at any time; this engine owns no currency master data.
type Currency struct {
	Code         string
	Symbol       string
	IsFunctional bool
}

// CurrencyRegistry looks up currencies and their rates to the functional
// currency as of a date
type CurrencyRegistry interface {
	GetCurrency(ctx context.Context, code string) (*Currency, error)
	FunctionalCurrency(ctx context.Context) (*Currency, error)
	// GetRate returns units of functional currency per unit of the given
	// currency as of the date
	GetRate(ctx context.Context, code string, date time.Time) (decimal.Decimal, error)
}

type rateScopeKey struct{}

// WithRateScope marks the context as belonging to a single settlement
// operation. Rate lookups made under the same scope may reuse each other's
// results; lookups under different scopes must resolve against the registry
// again.
func WithRateScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, rateScopeKey{}, uuid.NewString())
}

// RateScope returns the settlement scope identifier, or empty when the
// context carries none
func RateScope(ctx context.Context) string {
	if scope, ok := ctx.Value(rateScopeKey{}).(string); ok {
		return scope
	}
	return ""
}

// CounterpartyKind distinguishes clients from providers
type CounterpartyKind string

const (
	CounterpartyKindClient   CounterpartyKind = "CLIENT"
	CounterpartyKindProvider CounterpartyKind = "PROVIDER"
)

// Counterparty is a client or provider as published by the directory
type Counterparty struct {
	ID   uuid.UUID
	Name string
	Kind CounterpartyKind
}

// CounterpartyDirectory resolves counterparties referenced by settlements
type CounterpartyDirectory interface {
	GetCounterparty(ctx context.Context, id uuid.UUID) (*Counterparty, error)
}
