package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
)

// Direction indicates which side of the ledger an invoice or settlement sits on
type Direction string

const (
	DirectionReceivable Direction = "RECEIVABLE" // owed to us by a client
	DirectionPayable    Direction = "PAYABLE"    // owed by us to a supplier
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// String returns the string representation
func (d Direction) String() string {
	return string(d)
}

// InvoiceStatus represents the settlement status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen          InvoiceStatus = "OPEN"           // no allocations applied
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // 0 < balance < original amount
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // balance = 0
	InvoiceStatusVoided        InvoiceStatus = "VOIDED"         // cancelled upstream, excluded from allocation
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusVoided:
		return true
	}
	return false
}

// String returns the string representation
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanAllocate returns true if allocations can still be applied in this status
func (s InvoiceStatus) CanAllocate() bool {
	return s == InvoiceStatusOpen || s == InvoiceStatusPartiallyPaid
}

// Invoice is the ledger-side view of an invoice. Invoices are originated by an
// external posting collaborator; this engine only moves their balance through
// allocation apply/reverse and debit-note charges.
type Invoice struct {
	shared.BaseAggregateRoot
	Number                string
	CounterpartyID        uuid.UUID
	Direction             Direction
	IssueDate             time.Time
	DueDate               *time.Time
	CurrencyCode          string
	OriginalAmount        decimal.Decimal
	Balance               decimal.Decimal
	ExchangeRateAtPosting decimal.Decimal
	Status                InvoiceStatus
}

// NewInvoice registers an externally posted invoice in the ledger
func NewInvoice(number string, counterpartyID uuid.UUID, direction Direction, issueDate time.Time, dueDate *time.Time, currencyCode string, amount, rateAtPosting decimal.Decimal) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewValidationError("invoice number is required")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("counterparty is required")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("invalid invoice direction")
	}
	if currencyCode == "" {
		return nil, shared.NewValidationError("currency is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("invoice amount must be positive")
	}
	if rateAtPosting.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("exchange rate at posting must be positive")
	}

	return &Invoice{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Number:                number,
		CounterpartyID:        counterpartyID,
		Direction:             direction,
		IssueDate:             issueDate,
		DueDate:               dueDate,
		CurrencyCode:          currencyCode,
		OriginalAmount:        amount,
		Balance:               amount,
		ExchangeRateAtPosting: rateAtPosting,
		Status:                InvoiceStatusOpen,
	}, nil
}

// PaidAmount returns how much of the invoice has been settled
func (i *Invoice) PaidAmount() decimal.Decimal {
	return i.OriginalAmount.Sub(i.Balance)
}

// IsOutstanding returns true if the invoice still carries a balance to settle
func (i *Invoice) IsOutstanding() bool {
	return i.Status.CanAllocate() && i.Balance.GreaterThan(decimal.Zero)
}

// ApplyAllocation decrements the balance by a payment or credit-note allocation
func (i *Invoice) ApplyAllocation(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("allocation amount must be positive")
	}
	if !i.Status.CanAllocate() {
		return shared.NewInvalidStateError("invoice " + i.Number + " does not accept allocations in status " + i.Status.String())
	}
	if amount.GreaterThan(i.Balance) {
		return shared.NewDomainErrorf(shared.ErrCodeInsufficientBalance,
			"allocation %s exceeds balance %s on invoice %s", amount.String(), i.Balance.String(), i.Number)
	}

	i.Balance = i.Balance.Sub(amount)
	i.refreshStatus()
	i.Touch()
	return nil
}

// ReverseAllocation restores balance when a settlement allocation is voided.
// The balance is clamped at the original amount to guard duplicate reversal.
func (i *Invoice) ReverseAllocation(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("reversal amount must be positive")
	}
	if i.Status == InvoiceStatusVoided {
		return shared.NewInvalidStateError("cannot reverse allocations on voided invoice " + i.Number)
	}

	i.Balance = i.Balance.Add(amount)
	if i.Balance.GreaterThan(i.OriginalAmount) {
		i.Balance = i.OriginalAmount
	}
	i.refreshStatus()
	i.Touch()
	return nil
}

// ApplyCharge increases the amount owed for a debit-note allocation. The model
// subtracts from the paid portion rather than letting the balance exceed the
// original amount, so the charge is clamped to the amount already settled.
func (i *Invoice) ApplyCharge(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("charge amount must be positive")
	}
	if i.Status == InvoiceStatusVoided {
		return shared.NewInvalidStateError("cannot charge voided invoice " + i.Number)
	}

	i.Balance = i.Balance.Add(amount)
	if i.Balance.GreaterThan(i.OriginalAmount) {
		i.Balance = i.OriginalAmount
	}
	i.refreshStatus()
	i.Touch()
	return nil
}

// ReverseCharge undoes a voided debit-note allocation
func (i *Invoice) ReverseCharge(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("charge reversal amount must be positive")
	}
	if i.Status == InvoiceStatusVoided {
		return shared.NewInvalidStateError("cannot reverse charges on voided invoice " + i.Number)
	}

	i.Balance = i.Balance.Sub(amount)
	if i.Balance.IsNegative() {
		i.Balance = decimal.Zero
	}
	i.refreshStatus()
	i.Touch()
	return nil
}

func (i *Invoice) refreshStatus() {
	if i.Status == InvoiceStatusVoided {
		return
	}
	switch {
	case i.Balance.IsZero():
		i.Status = InvoiceStatusPaid
	case i.Balance.Equal(i.OriginalAmount):
		i.Status = InvoiceStatusOpen
	default:
		i.Status = InvoiceStatusPartiallyPaid
	}
}
