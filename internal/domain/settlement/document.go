package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
)

// DocumentType represents the kind of settlement document
type DocumentType string

const (
	DocumentTypePayment    DocumentType = "PAYMENT"
	DocumentTypeCreditNote DocumentType = "CREDIT_NOTE"
	DocumentTypeDebitNote  DocumentType = "DEBIT_NOTE"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePayment, DocumentTypeCreditNote, DocumentTypeDebitNote:
		return true
	}
	return false
}

// String returns the string representation
func (t DocumentType) String() string {
	return string(t)
}

// IsNote returns true for credit and debit notes
func (t DocumentType) IsNote() bool {
	return t == DocumentTypeCreditNote || t == DocumentTypeDebitNote
}

// DocumentStatus represents the lifecycle state of a settlement document
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "PENDING"
	DocumentStatusCompleted DocumentStatus = "COMPLETED"
	DocumentStatusVoided    DocumentStatus = "VOIDED"
)

// IsValid checks if the status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusCompleted, DocumentStatusVoided:
		return true
	}
	return false
}

// String returns the string representation
func (s DocumentStatus) String() string {
	return string(s)
}

// CanVoid returns true if a document in this status can be voided
func (s DocumentStatus) CanVoid() bool {
	return s == DocumentStatusPending || s == DocumentStatusCompleted
}

// PaymentMethod represents how a payment settlement moves funds
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCheck    PaymentMethod = "CHECK"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation
func (m PaymentMethod) String() string {
	return string(m)
}

// RequiresReference returns true if completing a payment with this method
// requires an external reference (check number, transfer id)
func (m PaymentMethod) RequiresReference() bool {
	return m != PaymentMethodCash
}

// Allocation links a settlement document to one invoice and the amount
// applied. Voided allocations are kept for audit, never deleted.
type Allocation struct {
	ID               uuid.UUID
	InvoiceID        uuid.UUID
	InvoiceNumber    string
	Amount           decimal.Decimal // invoice currency
	AmountFunctional decimal.Decimal // functional currency at settlement rate
	FXDifference     decimal.Decimal // functional currency, positive = loss
	Voided           bool
	VoidedAt         *time.Time
	CreatedAt        time.Time
}

// SettlementDocument is a Payment, CreditNote or DebitNote with its ordered
// allocations. Committed allocations are never edited in place; the only
// correction path is voiding the whole document.
type SettlementDocument struct {
	shared.BaseAggregateRoot
	Number               string
	Type                 DocumentType
	Direction            Direction
	CounterpartyID       uuid.UUID
	Date                 time.Time
	CurrencyCode         string
	ExchangeRate         decimal.Decimal // settlement currency to functional
	TotalAmount          decimal.Decimal // settlement currency, derived from allocations
	TotalFunctional      decimal.Decimal
	FXDifferenceTotal    decimal.Decimal
	PaymentMethod        PaymentMethod
	Reference            string
	Status               DocumentStatus
	RateDeviationFlagged bool
	Allocations          []Allocation
	VoidReason           string
	VoidedBy             string
	VoidedAt             *time.Time
}

// NewSettlementDocument creates a settlement document from an allocation
// plan. Payments against receivables and all notes complete immediately;
// payable payments stay pending until confirmed.
func NewSettlementDocument(number string, docType DocumentType, direction Direction, counterpartyID uuid.UUID, date time.Time, currencyCode string, exchangeRate decimal.Decimal, method PaymentMethod, reference string, plan *AllocationPlan) (*SettlementDocument, error) {
	if number == "" {
		return nil, shared.NewValidationError("settlement number is required")
	}
	if !docType.IsValid() {
		return nil, shared.NewValidationError("invalid settlement document type")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("invalid settlement direction")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("counterparty is required")
	}
	if currencyCode == "" {
		return nil, shared.NewValidationError("currency is required")
	}
	if exchangeRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("exchange rate must be positive")
	}
	if docType == DocumentTypePayment && !method.IsValid() {
		return nil, shared.NewValidationError("invalid payment method")
	}
	if plan == nil || plan.TotalAllocated.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("settlement total must be positive")
	}

	now := time.Now()
	allocations := make([]Allocation, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		allocations = append(allocations, Allocation{
			ID:               uuid.New(),
			InvoiceID:        a.InvoiceID,
			InvoiceNumber:    a.InvoiceNumber,
			Amount:           a.Amount,
			AmountFunctional: a.AmountFunctional,
			FXDifference:     a.FXDifference,
			CreatedAt:        now,
		})
	}

	doc := &SettlementDocument{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		Number:               number,
		Type:                 docType,
		Direction:            direction,
		CounterpartyID:       counterpartyID,
		Date:                 date,
		CurrencyCode:         currencyCode,
		ExchangeRate:         exchangeRate,
		TotalAmount:          plan.TotalAllocated,
		TotalFunctional:      plan.TotalFunctional,
		FXDifferenceTotal:    plan.FXDifferenceTotal,
		PaymentMethod:        method,
		Reference:            reference,
		Status:               DocumentStatusPending,
		RateDeviationFlagged: plan.RateDeviationFlagged,
		Allocations:          allocations,
	}

	if doc.completesOnCreate() {
		doc.Status = DocumentStatusCompleted
	}

	doc.AddDomainEvent(NewSettlementCreatedEvent(doc))
	if doc.Status == DocumentStatusCompleted {
		doc.AddDomainEvent(NewSettlementCompletedEvent(doc))
	}
	return doc, nil
}

// Notes complete on create; payments complete on create only when collecting
// a receivable. Payable payments await confirmation with a reference.
func (d *SettlementDocument) completesOnCreate() bool {
	if d.Type.IsNote() {
		return true
	}
	return d.Direction == DirectionReceivable
}

// Confirm transitions a pending document to completed. Every payment method
// except cash requires a reference.
func (d *SettlementDocument) Confirm(reference string) error {
	if d.Status != DocumentStatusPending {
		return shared.NewInvalidStateError("settlement " + d.Number + " cannot be confirmed in status " + d.Status.String())
	}
	if reference != "" {
		d.Reference = reference
	}
	if d.Type == DocumentTypePayment && d.PaymentMethod.RequiresReference() && d.Reference == "" {
		return shared.NewDomainErrorf(shared.ErrCodeMissingReference,
			"payment method %s requires a reference", d.PaymentMethod)
	}

	d.Status = DocumentStatusCompleted
	d.Touch()
	d.AddDomainEvent(NewSettlementCompletedEvent(d))
	return nil
}

// Void transitions a pending or completed document to voided, marking every
// allocation voided while preserving the original amounts for audit.
func (d *SettlementDocument) Void(reason, actor string) error {
	if !d.Status.CanVoid() {
		return shared.NewInvalidStateError("settlement " + d.Number + " cannot be voided in status " + d.Status.String())
	}

	now := time.Now()
	for i := range d.Allocations {
		if d.Allocations[i].Voided {
			continue
		}
		d.Allocations[i].Voided = true
		d.Allocations[i].VoidedAt = &now
	}
	d.Status = DocumentStatusVoided
	d.VoidReason = reason
	d.VoidedBy = actor
	d.VoidedAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewSettlementVoidedEvent(d, reason))
	return nil
}

// ActiveAllocations returns the allocations that still affect invoice balances
func (d *SettlementDocument) ActiveAllocations() []Allocation {
	active := make([]Allocation, 0, len(d.Allocations))
	for _, a := range d.Allocations {
		if !a.Voided {
			active = append(active, a)
		}
	}
	return active
}

// AppliesCharges returns true when allocations increase invoice balances
// instead of reducing them
func (d *SettlementDocument) AppliesCharges() bool {
	return d.Type == DocumentTypeDebitNote
}
