package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ProductInstanceRepository persists serialized units
type ProductInstanceRepository interface {
	AssetUniquenessIndex

	Create(ctx context.Context, instance *ProductInstance) error
	CreateBatch(ctx context.Context, instances []*ProductInstance) error
	FindByID(ctx context.Context, id uuid.UUID) (*ProductInstance, error)
	FindBySerialNumber(ctx context.Context, serial string) (*ProductInstance, error)
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]*ProductInstance, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter ListFilter) ([]*ProductInstance, int64, error)
}

// ListFilter narrows instance and stock listings
type ListFilter struct {
	ComponentID *uuid.UUID
	Status      *InstanceStatus
	Offset      int
	Limit       int
}

// WarehouseStockRepository persists bulk quantity counters
type WarehouseStockRepository interface {
	// IncrementOnHand atomically adds quantity to the counter identified by
	// (warehouseID, componentID, variantID), creating the row if it does not
	// exist. variantID is uuid.Nil for components without variants.
	IncrementOnHand(ctx context.Context, warehouseID, componentID, variantID uuid.UUID, quantity int, locationCode string) error
	FindByKey(ctx context.Context, warehouseID, componentID, variantID uuid.UUID) (*WarehouseStock, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, offset, limit int) ([]*WarehouseStock, int64, error)
}

// TransactionRepository appends to and reads the inventory ledger.
// There is deliberately no Update or Delete.
type TransactionRepository interface {
	Append(ctx context.Context, tx *InventoryTransaction) error
	AppendBatch(ctx context.Context, txs []*InventoryTransaction) error
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]*InventoryTransaction, error)
	// SumQuantityByReference returns the net signed quantity per purchase
	// order detail recorded against the given reference.
	SumQuantityByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) (map[uuid.UUID]int, error)
}
