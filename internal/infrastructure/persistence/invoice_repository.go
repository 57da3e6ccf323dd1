package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements settlement.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads a batch of invoices by ID
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*settlement.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindOutstanding finds invoices with a balance left to settle for a
// counterparty, oldest issue date first
func (r *GormInvoiceRepository) FindOutstanding(ctx context.Context, counterpartyID uuid.UUID, direction settlement.Direction, currencyCode string) ([]*settlement.Invoice, error) {
	query := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND direction = ? AND status IN ?", counterpartyID, direction,
			[]settlement.InvoiceStatus{settlement.InvoiceStatusOpen, settlement.InvoiceStatusPartiallyPaid})
	if currencyCode != "" {
		query = query.Where("currency_code = ?", currencyCode)
	}

	var invoiceModels []models.InvoiceModel
	if err := query.
		Order("issue_date ASC, number ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindByCounterparty finds all non-voided invoices for a counterparty
func (r *GormInvoiceRepository) FindByCounterparty(ctx context.Context, counterpartyID uuid.UUID) ([]*settlement.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("counterparty_id = ? AND status <> ?", counterpartyID, settlement.InvoiceStatusVoided).
		Order("issue_date ASC, number ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// Save persists an invoice without a version check
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *settlement.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *settlement.Invoice) error {
	return saveInvoiceWithLock(r.db.WithContext(ctx), invoice)
}

// saveInvoiceWithLock runs the optimistic version check on the given handle
// so settlement transactions can reuse it inside a gorm transaction
func saveInvoiceWithLock(db *gorm.DB, invoice *settlement.Invoice) error {
	currentVersion := invoice.Version
	invoice.IncrementVersion()

	model := models.InvoiceModelFromDomain(invoice)
	result := db.
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, currentVersion).
		Updates(map[string]any{
			"balance":    model.Balance,
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []*settlement.Invoice {
	invoices := make([]*settlement.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices
}
