package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionRepository implements the inventory ledger using GORM.
// The ledger is append-only: there are deliberately no update or delete
// methods, and corrections happen through new ADJUSTMENT entries.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Append writes one ledger entry
func (r *GormTransactionRepository) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// AppendBatch writes ledger entries in one statement
func (r *GormTransactionRepository) AppendBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&txs).Error
}

// FindByReference returns all entries recorded against a source document,
// oldest first
func (r *GormTransactionRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]*inventory.InventoryTransaction, error) {
	var txs []*inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("occurred_at ASC, created_at ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// SumQuantityByReference returns the net signed quantity per source document
// line. Entries without a line reference are excluded.
func (r *GormTransactionRepository) SumQuantityByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) (map[uuid.UUID]int, error) {
	var rows []struct {
		ReferenceDetailID uuid.UUID
		Total             int
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Select("reference_detail_id, SUM(quantity) AS total").
		Where("reference_type = ? AND reference_id = ? AND reference_detail_id IS NOT NULL", refType, refID).
		Group("reference_detail_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		totals[row.ReferenceDetailID] = row.Total
	}
	return totals, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
