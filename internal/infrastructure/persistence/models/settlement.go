package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	AggregateModel
	Number                string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	CounterpartyID        uuid.UUID                `gorm:"type:uuid;not null;index"`
	Direction             settlement.Direction     `gorm:"type:varchar(20);not null;index"`
	IssueDate             time.Time                `gorm:"not null;index"`
	DueDate               *time.Time               `gorm:"index"`
	CurrencyCode          string                   `gorm:"type:varchar(3);not null;index"`
	OriginalAmount        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Balance               decimal.Decimal          `gorm:"type:decimal(18,4);not null;index"`
	ExchangeRateAtPosting decimal.Decimal          `gorm:"type:decimal(18,8);not null"`
	Status                settlement.InvoiceStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *settlement.Invoice {
	inv := &settlement.Invoice{
		Number:                m.Number,
		CounterpartyID:        m.CounterpartyID,
		Direction:             m.Direction,
		IssueDate:             m.IssueDate,
		DueDate:               m.DueDate,
		CurrencyCode:          m.CurrencyCode,
		OriginalAmount:        m.OriginalAmount,
		Balance:               m.Balance,
		ExchangeRateAtPosting: m.ExchangeRateAtPosting,
		Status:                m.Status,
	}
	m.populateAggregateRoot(&inv.BaseAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *settlement.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.Number = inv.Number
	m.CounterpartyID = inv.CounterpartyID
	m.Direction = inv.Direction
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.CurrencyCode = inv.CurrencyCode
	m.OriginalAmount = inv.OriginalAmount
	m.Balance = inv.Balance
	m.ExchangeRateAtPosting = inv.ExchangeRateAtPosting
	m.Status = inv.Status
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *settlement.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// SettlementDocumentModel is the persistence model for the SettlementDocument
// aggregate root. Allocations live in their own table and are loaded with the
// document.
type SettlementDocumentModel struct {
	AggregateModel
	Number               string                     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type                 settlement.DocumentType    `gorm:"type:varchar(20);not null;index"`
	Direction            settlement.Direction       `gorm:"type:varchar(20);not null;index"`
	CounterpartyID       uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Date                 time.Time                  `gorm:"not null;index"`
	CurrencyCode         string                     `gorm:"type:varchar(3);not null"`
	ExchangeRate         decimal.Decimal            `gorm:"type:decimal(18,8);not null"`
	TotalAmount          decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	TotalFunctional      decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	FXDifferenceTotal    decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	PaymentMethod        settlement.PaymentMethod   `gorm:"type:varchar(20);not null"`
	Reference            string                     `gorm:"type:varchar(100)"`
	Status               settlement.DocumentStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	RateDeviationFlagged bool                       `gorm:"not null;default:false"`
	VoidReason           string                     `gorm:"type:varchar(500)"`
	VoidedBy             string                     `gorm:"type:varchar(100)"`
	VoidedAt             *time.Time
	Allocations          []SettlementAllocationModel `gorm:"foreignKey:SettlementID;references:ID"`
}

// TableName returns the table name for GORM
func (SettlementDocumentModel) TableName() string {
	return "settlement_documents"
}

// ToDomain converts the persistence model, allocations included, to a domain
// SettlementDocument
func (m *SettlementDocumentModel) ToDomain() *settlement.SettlementDocument {
	doc := &settlement.SettlementDocument{
		Number:               m.Number,
		Type:                 m.Type,
		Direction:            m.Direction,
		CounterpartyID:       m.CounterpartyID,
		Date:                 m.Date,
		CurrencyCode:         m.CurrencyCode,
		ExchangeRate:         m.ExchangeRate,
		TotalAmount:          m.TotalAmount,
		TotalFunctional:      m.TotalFunctional,
		FXDifferenceTotal:    m.FXDifferenceTotal,
		PaymentMethod:        m.PaymentMethod,
		Reference:            m.Reference,
		Status:               m.Status,
		RateDeviationFlagged: m.RateDeviationFlagged,
		VoidReason:           m.VoidReason,
		VoidedBy:             m.VoidedBy,
		VoidedAt:             m.VoidedAt,
	}
	m.populateAggregateRoot(&doc.BaseAggregateRoot)

	doc.Allocations = make([]settlement.Allocation, len(m.Allocations))
	for i, alloc := range m.Allocations {
		doc.Allocations[i] = alloc.ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model from a domain SettlementDocument
func (m *SettlementDocumentModel) FromDomain(doc *settlement.SettlementDocument) {
	m.FromDomainAggregateRoot(doc.BaseAggregateRoot)
	m.Number = doc.Number
	m.Type = doc.Type
	m.Direction = doc.Direction
	m.CounterpartyID = doc.CounterpartyID
	m.Date = doc.Date
	m.CurrencyCode = doc.CurrencyCode
	m.ExchangeRate = doc.ExchangeRate
	m.TotalAmount = doc.TotalAmount
	m.TotalFunctional = doc.TotalFunctional
	m.FXDifferenceTotal = doc.FXDifferenceTotal
	m.PaymentMethod = doc.PaymentMethod
	m.Reference = doc.Reference
	m.Status = doc.Status
	m.RateDeviationFlagged = doc.RateDeviationFlagged
	m.VoidReason = doc.VoidReason
	m.VoidedBy = doc.VoidedBy
	m.VoidedAt = doc.VoidedAt

	m.Allocations = make([]SettlementAllocationModel, len(doc.Allocations))
	for i, alloc := range doc.Allocations {
		m.Allocations[i] = SettlementAllocationModelFromDomain(doc.ID, alloc)
	}
}

// SettlementDocumentModelFromDomain creates a new persistence model from a
// domain SettlementDocument
func SettlementDocumentModelFromDomain(doc *settlement.SettlementDocument) *SettlementDocumentModel {
	m := &SettlementDocumentModel{}
	m.FromDomain(doc)
	return m
}

// SettlementAllocationModel is the persistence model for a single allocation
// line of a settlement document
type SettlementAllocationModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	SettlementID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber    string          `gorm:"type:varchar(50);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AmountFunctional decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	FXDifference     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Voided           bool            `gorm:"not null;default:false"`
	VoidedAt         *time.Time
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettlementAllocationModel) TableName() string {
	return "settlement_allocations"
}

// ToDomain converts the persistence model to a domain Allocation
func (m *SettlementAllocationModel) ToDomain() settlement.Allocation {
	return settlement.Allocation{
		ID:               m.ID,
		InvoiceID:        m.InvoiceID,
		InvoiceNumber:    m.InvoiceNumber,
		Amount:           m.Amount,
		AmountFunctional: m.AmountFunctional,
		FXDifference:     m.FXDifference,
		Voided:           m.Voided,
		VoidedAt:         m.VoidedAt,
		CreatedAt:        m.CreatedAt,
	}
}

// SettlementAllocationModelFromDomain creates a persistence model from a
// domain Allocation
func SettlementAllocationModelFromDomain(settlementID uuid.UUID, alloc settlement.Allocation) SettlementAllocationModel {
	return SettlementAllocationModel{
		ID:               alloc.ID,
		SettlementID:     settlementID,
		InvoiceID:        alloc.InvoiceID,
		InvoiceNumber:    alloc.InvoiceNumber,
		Amount:           alloc.Amount,
		AmountFunctional: alloc.AmountFunctional,
		FXDifference:     alloc.FXDifference,
		Voided:           alloc.Voided,
		VoidedAt:         alloc.VoidedAt,
		CreatedAt:        alloc.CreatedAt,
	}
}

// DocumentSequenceModel backs gapless per-type settlement numbering
type DocumentSequenceModel struct {
	DocType   settlement.DocumentType `gorm:"type:varchar(20);primary_key"`
	NextValue int64                   `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
