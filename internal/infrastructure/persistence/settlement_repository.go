package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/persistence/models"
)

// settlementSortFields contains allowed sort fields for settlement listings
var settlementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"date":       true,
	"status":     true,
}

// numberPrefixes maps document types to their number series
var numberPrefixes = map[settlement.DocumentType]string{
	settlement.DocumentTypePayment:    "PAY",
	settlement.DocumentTypeCreditNote: "CRN",
	settlement.DocumentTypeDebitNote:  "DBN",
}

// GormSettlementRepository implements settlement.SettlementRepository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

// FindByID finds a settlement document with its allocations
func (r *GormSettlementRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.SettlementDocument, error) {
	var model models.SettlementDocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCounterparty finds all settlement documents for a counterparty,
// newest first
func (r *GormSettlementRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*settlement.SettlementDocument, error) {
	var docModels []models.SettlementDocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Allocations").
		Where("counterparty_id = ?", counterpartyID).
		Order("date DESC, number DESC").
		Find(&docModels).Error; err != nil {
		return nil, err
	}
	return toDomainDocuments(docModels), nil
}

// List returns a filtered, paginated page of settlement documents
func (r *GormSettlementRepository) List(ctx context.Context, filter settlement.SettlementListFilter) (shared.Paginated[*settlement.SettlementDocument], error) {
	var empty shared.Paginated[*settlement.SettlementDocument]
	f := filter
	f.Filter = f.Filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.SettlementDocumentModel{})
	if f.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *f.CounterpartyID)
	}
	if f.Type != nil {
		query = query.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.DateFrom != nil {
		query = query.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		query = query.Where("date <= ?", *f.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return empty, err
	}

	orderBy := ValidateSortField(f.OrderBy, settlementSortFields, "date")
	var docModels []models.SettlementDocumentModel
	if err := query.
		Preload("Allocations").
		Order(orderBy + " DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&docModels).Error; err != nil {
		return empty, err
	}

	return shared.Paginated[*settlement.SettlementDocument]{
		Items: toDomainDocuments(docModels),
		Total: total,
	}, nil
}

// CommitSettlement persists the document, its allocations and every touched
// invoice in one transaction. A version conflict on any invoice rolls the
// whole settlement back.
func (r *GormSettlementRepository) CommitSettlement(ctx context.Context, doc *settlement.SettlementDocument, invoices []*settlement.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.SettlementDocumentModelFromDomain(doc)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		for _, inv := range invoices {
			if err := saveInvoiceWithLock(tx, inv); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock persists a status transition with optimistic locking
func (r *GormSettlementRepository) SaveWithLock(ctx context.Context, doc *settlement.SettlementDocument) error {
	return saveDocumentWithLock(r.db.WithContext(ctx), doc)
}

// VoidSettlement persists the voided document, its voided allocation marks
// and the restored invoice balances in one transaction
func (r *GormSettlementRepository) VoidSettlement(ctx context.Context, doc *settlement.SettlementDocument, invoices []*settlement.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveDocumentWithLock(tx, doc); err != nil {
			return err
		}
		if err := tx.Model(&models.SettlementAllocationModel{}).
			Where("settlement_id = ?", doc.ID).
			Updates(map[string]any{
				"voided":    true,
				"voided_at": doc.VoidedAt,
			}).Error; err != nil {
			return err
		}
		for _, inv := range invoices {
			if err := saveInvoiceWithLock(tx, inv); err != nil {
				return err
			}
		}
		return nil
	})
}

// NextNumber issues the next document number for a type, e.g. PAY-000123.
// The per-type counter is advanced atomically so concurrent settlements never
// share a number.
func (r *GormSettlementRepository) NextNumber(ctx context.Context, docType settlement.DocumentType) (string, error) {
	prefix, ok := numberPrefixes[docType]
	if !ok {
		return "", shared.NewValidationError("invalid settlement document type")
	}

	var next int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (doc_type, next_value) VALUES (?, 1)
		 ON CONFLICT (doc_type) DO UPDATE SET next_value = document_sequences.next_value + 1
		 RETURNING next_value`,
		docType,
	).Scan(&next).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%06d", prefix, next), nil
}

// saveDocumentWithLock runs the optimistic version check on the given handle
func saveDocumentWithLock(db *gorm.DB, doc *settlement.SettlementDocument) error {
	currentVersion := doc.Version
	doc.IncrementVersion()

	model := models.SettlementDocumentModelFromDomain(doc)
	result := db.
		Model(&models.SettlementDocumentModel{}).
		Where("id = ? AND version = ?", doc.ID, currentVersion).
		Updates(map[string]any{
			"status":      model.Status,
			"reference":   model.Reference,
			"void_reason": model.VoidReason,
			"voided_by":   model.VoidedBy,
			"voided_at":   model.VoidedAt,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func toDomainDocuments(docModels []models.SettlementDocumentModel) []*settlement.SettlementDocument {
	docs := make([]*settlement.SettlementDocument, len(docModels))
	for i := range docModels {
		docs[i] = docModels[i].ToDomain()
	}
	return docs
}
