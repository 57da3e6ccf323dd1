package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
)

// Event types raised by the settlement aggregate
const (
	EventTypeSettlementCreated   = "settlement.created"
	EventTypeSettlementCompleted = "settlement.completed"
	EventTypeSettlementVoided    = "settlement.voided"
)

// SettlementCreatedEvent is raised when a settlement document is created
type SettlementCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string
	DocumentType DocumentType
	TotalAmount  decimal.Decimal
	CurrencyCode string
}

// NewSettlementCreatedEvent creates a settlement created event
func NewSettlementCreatedEvent(doc *SettlementDocument) SettlementCreatedEvent {
	return SettlementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettlementCreated, doc.ID),
		Number:          doc.Number,
		DocumentType:    doc.Type,
		TotalAmount:     doc.TotalAmount,
		CurrencyCode:    doc.CurrencyCode,
	}
}

// SettlementCompletedEvent is raised when a settlement document completes
type SettlementCompletedEvent struct {
	shared.BaseDomainEvent
	Number            string
	FXDifferenceTotal decimal.Decimal
}

// NewSettlementCompletedEvent creates a settlement completed event
func NewSettlementCompletedEvent(doc *SettlementDocument) SettlementCompletedEvent {
	return SettlementCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeSettlementCompleted, doc.ID),
		Number:            doc.Number,
		FXDifferenceTotal: doc.FXDifferenceTotal,
	}
}

// SettlementVoidedEvent is raised when a settlement document is voided
type SettlementVoidedEvent struct {
	shared.BaseDomainEvent
	Number string
	Reason string
}

// NewSettlementVoidedEvent creates a settlement voided event
func NewSettlementVoidedEvent(doc *SettlementDocument, reason string) SettlementVoidedEvent {
	return SettlementVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSettlementVoided, doc.ID),
		Number:          doc.Number,
		Reason:          reason,
	}
}
