package settlement

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared/strategy"
)

// AllocationMode defines how allocations are computed for a settlement
type AllocationMode string

const (
	AllocationModeFIFO   AllocationMode = "FIFO"   // oldest issue date first
	AllocationModeManual AllocationMode = "MANUAL" // explicit per-invoice amounts
)

// IsValid checks if the allocation mode is valid
func (m AllocationMode) IsValid() bool {
	return m == AllocationModeFIFO || m == AllocationModeManual
}

// String returns the string representation
func (m AllocationMode) String() string {
	return string(m)
}

// AllocationTarget is a snapshot of an outstanding invoice the planner can
// allocate against
type AllocationTarget struct {
	InvoiceID     uuid.UUID
	Number        string
	IssueDate     time.Time
	CurrencyCode  string
	Balance       decimal.Decimal
	RateAtPosting decimal.Decimal
}

// TargetsFromInvoices converts outstanding invoices into allocation targets,
// optionally restricted to one currency. Invoices that cannot receive
// allocations are skipped.
func TargetsFromInvoices(invoices []*Invoice, currencyFilter string) []AllocationTarget {
	targets := make([]AllocationTarget, 0, len(invoices))
	for _, inv := range invoices {
		if !inv.IsOutstanding() {
			continue
		}
		if currencyFilter != "" && inv.CurrencyCode != currencyFilter {
			continue
		}
		targets = append(targets, AllocationTarget{
			InvoiceID:     inv.ID,
			Number:        inv.Number,
			IssueDate:     inv.IssueDate,
			CurrencyCode:  inv.CurrencyCode,
			Balance:       inv.Balance,
			RateAtPosting: inv.ExchangeRateAtPosting,
		})
	}
	return targets
}

// PlannedAllocation is one planned application of settlement funds to an invoice
type PlannedAllocation struct {
	InvoiceID        uuid.UUID
	InvoiceNumber    string
	Amount           decimal.Decimal // invoice currency
	AmountFunctional decimal.Decimal // functional currency at settlement rate
	FXDifference     decimal.Decimal // functional currency, positive = loss
}

// AllocationPlan is the canonical result shape of a planning run. Every
// consumer reads this one strongly typed shape; there is no per-caller
// field probing.
type AllocationPlan struct {
	Mode                 AllocationMode
	Allocations          []PlannedAllocation
	TotalAllocated       decimal.Decimal // settlement currency
	TotalFunctional      decimal.Decimal
	FXDifferenceTotal    decimal.Decimal
	Remaining            decimal.Decimal // requested amount left unallocated
	FullyAllocated       bool
	RateDeviationFlagged bool
}

func emptyPlan(mode AllocationMode, remaining decimal.Decimal) *AllocationPlan {
	return &AllocationPlan{
		Mode:           mode,
		Allocations:    make([]PlannedAllocation, 0),
		TotalAllocated: decimal.Zero,
		Remaining:      remaining,
		FullyAllocated: remaining.IsZero(),
	}
}

// ManualAllocation is one caller-specified allocation instruction
type ManualAllocation struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// AllocationPlanner computes which invoices receive how much of a settlement
type AllocationPlanner interface {
	strategy.Strategy
	Mode() AllocationMode
}

// FIFOAllocationPlanner allocates a target total to the oldest outstanding
// invoices first. Each run recomputes the plan from scratch; prior manual
// edits are not preserved.
type FIFOAllocationPlanner struct {
	strategy.BaseStrategy
	converter *Converter
}

// NewFIFOAllocationPlanner creates a new FIFO allocation planner
func NewFIFOAllocationPlanner(converter *Converter) *FIFOAllocationPlanner {
	return &FIFOAllocationPlanner{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo_allocation",
			strategy.StrategyTypeAllocation,
			"Allocates a settlement total to outstanding invoices oldest issue date first",
		),
		converter: converter,
	}
}

// Mode returns the allocation mode
func (p *FIFOAllocationPlanner) Mode() AllocationMode {
	return AllocationModeFIFO
}

// Plan walks targets oldest-first, allocating min(remaining, balance) to each
// until the total is consumed or targets are exhausted. An unallocated
// remainder is reported on the plan, not treated as an error. Targets whose
// currency differs from the settlement currency are skipped.
func (p *FIFOAllocationPlanner) Plan(total decimal.Decimal, currencyCode string, settlementRate decimal.Decimal, targets []AllocationTarget) (*AllocationPlan, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("allocation total must be positive")
	}
	if settlementRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("settlement exchange rate must be positive")
	}
	if len(targets) == 0 {
		return emptyPlan(AllocationModeFIFO, total), nil
	}

	sorted := make([]AllocationTarget, 0, len(targets))
	for _, t := range targets {
		if t.CurrencyCode != currencyCode {
			continue
		}
		if t.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		sorted = append(sorted, t)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].IssueDate.Before(sorted[j].IssueDate)
	})

	plan := emptyPlan(AllocationModeFIFO, total)
	remaining := total

	for _, target := range sorted {
		if remaining.IsZero() {
			break
		}
		amount := decimal.Min(remaining, target.Balance)
		plan.Allocations = append(plan.Allocations, p.planned(target, amount, settlementRate))
		remaining = remaining.Sub(amount)
	}

	finalizePlan(plan, remaining)
	return plan, nil
}

func (p *FIFOAllocationPlanner) planned(target AllocationTarget, amount, settlementRate decimal.Decimal) PlannedAllocation {
	functional := amount.Mul(settlementRate)
	return PlannedAllocation{
		InvoiceID:        target.InvoiceID,
		InvoiceNumber:    target.Number,
		Amount:           amount,
		AmountFunctional: functional,
		FXDifference:     p.converter.FXDifference(amount, functional, target.RateAtPosting),
	}
}

// ManualAllocationPlanner applies caller-specified amounts to specific
// invoices. Amounts are clamped to [0, balance]; the plan total is derived
// from the allocations, never supplied by the caller.
type ManualAllocationPlanner struct {
	strategy.BaseStrategy
	converter *Converter
	requests  []ManualAllocation
}

// NewManualAllocationPlanner creates a new manual allocation planner
func NewManualAllocationPlanner(converter *Converter, requests []ManualAllocation) *ManualAllocationPlanner {
	return &ManualAllocationPlanner{
		BaseStrategy: strategy.NewBaseStrategy(
			"manual_allocation",
			strategy.StrategyTypeAllocation,
			"Applies caller-specified amounts to specific invoices, clamped to each balance",
		),
		converter: converter,
		requests:  requests,
	}
}

// Mode returns the allocation mode
func (p *ManualAllocationPlanner) Mode() AllocationMode {
	return AllocationModeManual
}

// Requests returns the configured manual allocations
func (p *ManualAllocationPlanner) Requests() []ManualAllocation {
	return p.requests
}

// Plan resolves each manual request against its target invoice. Unknown
// invoices are not found; invoices in a currency other than the settlement
// currency are a currency mismatch. Requests collapsing to zero after the
// clamp produce no allocation.
func (p *ManualAllocationPlanner) Plan(currencyCode string, settlementRate decimal.Decimal, targets []AllocationTarget) (*AllocationPlan, error) {
	if settlementRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("settlement exchange rate must be positive")
	}
	if len(p.requests) == 0 {
		return nil, shared.NewValidationError("manual allocation requires at least one instruction")
	}

	byID := make(map[uuid.UUID]*AllocationTarget, len(targets))
	for i := range targets {
		byID[targets[i].InvoiceID] = &targets[i]
	}

	plan := emptyPlan(AllocationModeManual, decimal.Zero)

	for _, req := range p.requests {
		target, ok := byID[req.InvoiceID]
		if !ok {
			return nil, shared.NewDomainErrorf(shared.ErrCodeNotFound,
				"invoice %s is not outstanding for this counterparty", req.InvoiceID)
		}
		if target.CurrencyCode != currencyCode {
			return nil, shared.NewDomainErrorf(shared.ErrCodeCurrencyMismatch,
				"invoice %s is in %s, settlement is in %s", target.Number, target.CurrencyCode, currencyCode)
		}

		amount := req.Amount
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		if amount.GreaterThan(target.Balance) {
			amount = target.Balance
		}
		if amount.IsZero() {
			continue
		}

		functional := amount.Mul(settlementRate)
		plan.Allocations = append(plan.Allocations, PlannedAllocation{
			InvoiceID:        target.InvoiceID,
			InvoiceNumber:    target.Number,
			Amount:           amount,
			AmountFunctional: functional,
			FXDifference:     p.converter.FXDifference(amount, functional, target.RateAtPosting),
		})
		target.Balance = target.Balance.Sub(amount)
	}

	finalizePlan(plan, decimal.Zero)
	return plan, nil
}

func finalizePlan(plan *AllocationPlan, remaining decimal.Decimal) {
	total := decimal.Zero
	functional := decimal.Zero
	fx := decimal.Zero
	for _, a := range plan.Allocations {
		total = total.Add(a.Amount)
		functional = functional.Add(a.AmountFunctional)
		fx = fx.Add(a.FXDifference)
	}
	plan.TotalAllocated = total
	plan.TotalFunctional = functional
	plan.FXDifferenceTotal = fx
	plan.Remaining = remaining
	plan.FullyAllocated = remaining.IsZero()
}
