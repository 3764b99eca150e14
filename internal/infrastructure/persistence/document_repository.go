package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dms/backend/internal/domain/document"
	"github.com/dms/backend/internal/domain/shared"
	"github.com/dms/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.Repository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Save inserts a registry entry
func (r *GormDocumentRepository) Save(ctx context.Context, record *document.Record) error {
	if record == nil {
		return shared.ErrInvalidInput
	}
	if err := r.db.WithContext(ctx).Create(models.DocumentRecordModelFromDomain(record)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("save document record: %w", err)
	}
	return nil
}

// FindByID finds a registry entry by id
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Record, error) {
	var model models.DocumentRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder returns the documents of an order, newest first
func (r *GormDocumentRepository) FindByOrder(ctx context.Context, orderID string) ([]document.Record, error) {
	var rows []models.DocumentRecordModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]document.Record, len(rows))
	for i := range rows {
		records[i] = *rows[i].ToDomain()
	}
	return records, nil
}

var _ document.Repository = (*GormDocumentRepository)(nil)
