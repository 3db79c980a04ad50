package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// WarehouseStock is the aggregate quantity counter for a bulk component at
// one warehouse. The composite identity is (warehouse, component, variant);
// there is never one row per physical unit. The counter is a cache over the
// ledger: it may only be written in the same transaction as the matching
// ledger append.
//
// VariantID uses uuid.Nil for "no variant" so the composite unique index
// holds without nullable-column caveats.
type WarehouseStock struct {
	shared.BaseEntity
	WarehouseID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_stock_key,priority:1"`
	ComponentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_stock_key,priority:2"`
	VariantID        uuid.UUID `gorm:"type:uuid;not null;default:'00000000-0000-0000-0000-000000000000';uniqueIndex:idx_warehouse_stock_key,priority:3"`
	QuantityOnHand   int       `gorm:"not null;default:0"`
	QuantityReserved int       `gorm:"not null;default:0"`
	LocationCode     string    `gorm:"type:varchar(50)"`
	LastStockUpdate  time.Time `gorm:"not null"`
}

// NewWarehouseStock creates a counter row with an initial quantity
func NewWarehouseStock(warehouseID, componentID, variantID uuid.UUID, quantity int) (*WarehouseStock, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse ID cannot be empty")
	}
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Component ID cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity cannot be negative")
	}

	return &WarehouseStock{
		BaseEntity:      shared.NewBaseEntity(),
		WarehouseID:     warehouseID,
		ComponentID:     componentID,
		VariantID:       variantID,
		QuantityOnHand:  quantity,
		LastStockUpdate: time.Now(),
	}, nil
}

// Increase adds quantity to the on-hand counter
func (s *WarehouseStock) Increase(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Increase quantity must be positive")
	}
	s.QuantityOnHand += quantity
	s.LastStockUpdate = time.Now()
	s.UpdatedAt = s.LastStockUpdate
	return nil
}

// Available returns the quantity not reserved for pending orders
func (s *WarehouseStock) Available() int {
	return s.QuantityOnHand - s.QuantityReserved
}
