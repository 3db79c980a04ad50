package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWarehouseStockRepository implements WarehouseStockRepository using GORM
type GormWarehouseStockRepository struct {
	db *gorm.DB
}

// NewGormWarehouseStockRepository creates a new GormWarehouseStockRepository
func NewGormWarehouseStockRepository(db *gorm.DB) *GormWarehouseStockRepository {
	return &GormWarehouseStockRepository{db: db}
}

// IncrementOnHand atomically adds quantity to the counter identified by
// (warehouseID, componentID, variantID), creating the row on first receipt.
// The upsert keys on the composite unique index, so two concurrent receipts
// of the same component both land instead of one overwriting the other.
func (r *GormWarehouseStockRepository) IncrementOnHand(ctx context.Context, warehouseID, componentID, variantID uuid.UUID, quantity int, locationCode string) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Increment quantity must be positive")
	}

	stock, err := inventory.NewWarehouseStock(warehouseID, componentID, variantID, quantity)
	if err != nil {
		return err
	}
	stock.LocationCode = locationCode

	now := time.Now()
	assignments := map[string]interface{}{
		"quantity_on_hand":  gorm.Expr("warehouse_stocks.quantity_on_hand + ?", quantity),
		"last_stock_update": now,
		"updated_at":        now,
	}
	if locationCode != "" {
		assignments["location_code"] = locationCode
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "warehouse_id"},
				{Name: "component_id"},
				{Name: "variant_id"},
			},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(stock).Error
}

// FindByKey finds the counter row for a (warehouse, component, variant) key
func (r *GormWarehouseStockRepository) FindByKey(ctx context.Context, warehouseID, componentID, variantID uuid.UUID) (*inventory.WarehouseStock, error) {
	var stock inventory.WarehouseStock
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND component_id = ? AND variant_id = ?", warehouseID, componentID, variantID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByWarehouse returns the counter rows in a warehouse, with the total count
func (r *GormWarehouseStockRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, offset, limit int) ([]*inventory.WarehouseStock, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.WarehouseStock{}).
		Where("warehouse_id = ?", warehouseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}

	var stocks []*inventory.WarehouseStock
	if err := query.
		Order("component_id ASC, variant_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&stocks).Error; err != nil {
		return nil, 0, err
	}
	return stocks, total, nil
}

// Ensure GormWarehouseStockRepository implements WarehouseStockRepository
var _ inventory.WarehouseStockRepository = (*GormWarehouseStockRepository)(nil)
