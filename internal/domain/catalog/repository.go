package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ComponentRepository provides read access to catalog components.
// The receiving engine never mutates the catalog.
type ComponentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Component, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Component, error)
	FindBySKU(ctx context.Context, sku string) (*Component, error)
}

// WarehouseRepository provides read access to warehouses.
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
