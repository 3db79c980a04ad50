package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/procurement"
	"github.com/warehouse/backend/internal/domain/shared"
)

// Stub repositories backed by function fields. Unset functions return
// not-found so tests only wire the calls they care about.

type stubOrderRepo struct {
	findByID   func(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error)
	createFn   func(ctx context.Context, order *procurement.PurchaseOrder) error
	nextCodeFn func(ctx context.Context) (string, error)
	listFn     func(ctx context.Context, query procurement.ListQuery) (*shared.Paginated[*procurement.PurchaseOrder], error)
}

func (r *stubOrderRepo) Create(ctx context.Context, order *procurement.PurchaseOrder) error {
	if r.createFn != nil {
		return r.createFn(ctx, order)
	}
	return nil
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	if r.findByID != nil {
		return r.findByID(ctx, id)
	}
	return nil, shared.ErrNotFound
}

func (r *stubOrderRepo) FindByIDForReceiving(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	return r.FindByID(ctx, id)
}

func (r *stubOrderRepo) FindByCode(ctx context.Context, code string) (*procurement.PurchaseOrder, error) {
	return nil, shared.ErrNotFound
}

func (r *stubOrderRepo) List(ctx context.Context, query procurement.ListQuery) (*shared.Paginated[*procurement.PurchaseOrder], error) {
	if r.listFn != nil {
		return r.listFn(ctx, query)
	}
	p := shared.NewPaginated([]*procurement.PurchaseOrder{}, 0, 1, 20)
	return &p, nil
}

func (r *stubOrderRepo) Save(ctx context.Context, order *procurement.PurchaseOrder) error { return nil }

func (r *stubOrderRepo) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder, expectedVersion int) error {
	return nil
}

func (r *stubOrderRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubOrderRepo) NextCode(ctx context.Context) (string, error) {
	if r.nextCodeFn != nil {
		return r.nextCodeFn(ctx)
	}
	return "PO-2026-00001", nil
}

type stubHistoryRepo struct {
	entries []*procurement.PurchaseOrderHistory
}

func (r *stubHistoryRepo) Append(ctx context.Context, entry *procurement.PurchaseOrderHistory) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubHistoryRepo) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*procurement.PurchaseOrderHistory, error) {
	return r.entries, nil
}

type stubInstanceRepo struct {
	findBySerial func(ctx context.Context, serial string) (*inventory.ProductInstance, error)
}

func (r *stubInstanceRepo) Create(ctx context.Context, instance *inventory.ProductInstance) error {
	return nil
}

func (r *stubInstanceRepo) CreateBatch(ctx context.Context, instances []*inventory.ProductInstance) error {
	return nil
}

func (r *stubInstanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductInstance, error) {
	return nil, shared.ErrNotFound
}

func (r *stubInstanceRepo) FindBySerialNumber(ctx context.Context, serial string) (*inventory.ProductInstance, error) {
	if r.findBySerial != nil {
		return r.findBySerial(ctx, serial)
	}
	return nil, shared.ErrNotFound
}

func (r *stubInstanceRepo) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]*inventory.ProductInstance, error) {
	return nil, nil
}

func (r *stubInstanceRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter inventory.ListFilter) ([]*inventory.ProductInstance, int64, error) {
	return nil, 0, nil
}

func (r *stubInstanceRepo) FindConflicts(ctx context.Context, serials, imeis []string) ([]inventory.IdentityConflict, error) {
	return nil, nil
}

type stubStockRepo struct{}

func (r *stubStockRepo) IncrementOnHand(ctx context.Context, warehouseID, componentID, variantID uuid.UUID, quantity int, locationCode string) error {
	return nil
}

func (r *stubStockRepo) FindByKey(ctx context.Context, warehouseID, componentID, variantID uuid.UUID) (*inventory.WarehouseStock, error) {
	return nil, shared.ErrNotFound
}

func (r *stubStockRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, offset, limit int) ([]*inventory.WarehouseStock, int64, error) {
	return nil, 0, nil
}

type stubLedgerRepo struct{}

func (r *stubLedgerRepo) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return nil
}

func (r *stubLedgerRepo) AppendBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	return nil
}

func (r *stubLedgerRepo) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]*inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *stubLedgerRepo) SumQuantityByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) (map[uuid.UUID]int, error) {
	return map[uuid.UUID]int{}, nil
}

type stubComponentRepo struct {
	components map[uuid.UUID]*catalog.Component
}

func (r *stubComponentRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Component, error) {
	if c, ok := r.components[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubComponentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Component, error) {
	out := make(map[uuid.UUID]*catalog.Component)
	for _, id := range ids {
		if c, ok := r.components[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}

func (r *stubComponentRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Component, error) {
	return nil, shared.ErrNotFound
}

type stubWarehouseRepo struct {
	existing map[uuid.UUID]bool
}

func (r *stubWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	return nil, shared.ErrNotFound
}

func (r *stubWarehouseRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.existing[id], nil
}
