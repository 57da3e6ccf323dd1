package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/settlement/acl"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/domain/shared"
	"github.com/ialejandroaaa-lang/CronoDemo-sub002/internal/infrastructure/persistence/models"
)

// GormCounterpartyDirectory implements acl.CounterpartyDirectory against the
// replicated counterparty table. Read-only here.
type GormCounterpartyDirectory struct {
	db *gorm.DB
}

// NewGormCounterpartyDirectory creates a new GormCounterpartyDirectory
func NewGormCounterpartyDirectory(db *gorm.DB) *GormCounterpartyDirectory {
	return &GormCounterpartyDirectory{db: db}
}

// GetCounterparty looks up a counterparty by ID
func (r *GormCounterpartyDirectory) GetCounterparty(ctx context.Context, id uuid.UUID) (*acl.Counterparty, error) {
	var model models.CounterpartyModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("counterparty")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
