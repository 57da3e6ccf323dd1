package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
)

// InvoiceRepository persists invoice ledger state
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Invoice, error)
	// FindOutstanding returns invoices with a balance to settle, oldest
	// issue date first, optionally restricted to one currency.
	FindOutstanding(ctx context.Context, counterpartyID uuid.UUID, direction Direction, currencyCode string) ([]*Invoice, error)
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	// SaveWithLock persists the invoice with an optimistic version check and
	// returns a concurrency conflict when the stored version moved on.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}

// SettlementListFilter narrows settlement document listings
type SettlementListFilter struct {
	shared.Filter
	CounterpartyID *uuid.UUID
	Type           *DocumentType
	Status         *DocumentStatus
	DateFrom       *time.Time
	DateTo         *time.Time
}

// SettlementRepository persists settlement documents and commits their
// balance effects atomically
type SettlementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SettlementDocument, error)
	FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*SettlementDocument, error)
	List(ctx context.Context, filter SettlementListFilter) (shared.Paginated[*SettlementDocument], error)
	// CommitSettlement persists the document, its allocations and every
	// touched invoice in one transaction. A version conflict on any invoice
	// rolls the whole settlement back.
	CommitSettlement(ctx context.Context, doc *SettlementDocument, invoices []*Invoice) error
	// SaveWithLock persists a status transition that touches no invoices
	SaveWithLock(ctx context.Context, doc *SettlementDocument) error
	// VoidSettlement persists the voided document and the restored invoice
	// balances in one transaction.
	VoidSettlement(ctx context.Context, doc *SettlementDocument, invoices []*Invoice) error
	// NextNumber issues the next document number for a type, e.g. PAY-000123
	NextNumber(ctx context.Context, docType DocumentType) (string, error)
}
