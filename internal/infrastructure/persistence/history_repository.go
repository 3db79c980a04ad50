package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/procurement"
	"gorm.io/gorm"
)

// GormHistoryRepository implements HistoryRepository using GORM
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append writes one audit record. Records are never updated afterwards.
func (r *GormHistoryRepository) Append(ctx context.Context, entry *procurement.PurchaseOrderHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByOrder returns the audit trail for an order, newest first
func (r *GormHistoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*procurement.PurchaseOrderHistory, error) {
	var entries []*procurement.PurchaseOrderHistory
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", orderID).
		Order("occurred_at DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormHistoryRepository implements HistoryRepository
var _ procurement.HistoryRepository = (*GormHistoryRepository)(nil)
