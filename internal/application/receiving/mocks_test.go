package receiving

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/procurement"
	"github.com/warehouse/backend/internal/domain/shared"
)

// MockPurchaseOrderRepository is a mock implementation of procurement.PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForReceiving(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByCode(ctx context.Context, code string) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, query procurement.ListQuery) (*shared.Paginated[*procurement.PurchaseOrder], error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*procurement.PurchaseOrder]), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) NextCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockHistoryRepository is a mock implementation of procurement.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry *procurement.PurchaseOrderHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*procurement.PurchaseOrderHistory, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*procurement.PurchaseOrderHistory), args.Error(1)
}

// MockInstanceRepository is a mock implementation of inventory.ProductInstanceRepository
type MockInstanceRepository struct {
	mock.Mock
}

func (m *MockInstanceRepository) FindConflicts(ctx context.Context, serials, imeis []string) ([]inventory.IdentityConflict, error) {
	args := m.Called(ctx, serials, imeis)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.IdentityConflict), args.Error(1)
}

func (m *MockInstanceRepository) Create(ctx context.Context, instance *inventory.ProductInstance) error {
	args := m.Called(ctx, instance)
	return args.Error(0)
}

func (m *MockInstanceRepository) CreateBatch(ctx context.Context, instances []*inventory.ProductInstance) error {
	args := m.Called(ctx, instances)
	return args.Error(0)
}

func (m *MockInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindBySerialNumber(ctx context.Context, serial string) (*inventory.ProductInstance, error) {
	args := m.Called(ctx, serial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]*inventory.ProductInstance, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.ProductInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter inventory.ListFilter) ([]*inventory.ProductInstance, int64, error) {
	args := m.Called(ctx, warehouseID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*inventory.ProductInstance), args.Get(1).(int64), args.Error(2)
}

// MockStockRepository is a mock implementation of inventory.WarehouseStockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) IncrementOnHand(ctx context.Context, warehouseID, componentID, variantID uuid.UUID, quantity int, locationCode string) error {
	args := m.Called(ctx, warehouseID, componentID, variantID, quantity, locationCode)
	return args.Error(0)
}

func (m *MockStockRepository) FindByKey(ctx context.Context, warehouseID, componentID, variantID uuid.UUID) (*inventory.WarehouseStock, error) {
	args := m.Called(ctx, warehouseID, componentID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseStock), args.Error(1)
}

func (m *MockStockRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, offset, limit int) ([]*inventory.WarehouseStock, int64, error) {
	args := m.Called(ctx, warehouseID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*inventory.WarehouseStock), args.Get(1).(int64), args.Error(2)
}

// MockLedgerRepository is a mock implementation of inventory.TransactionRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, tx *inventory.InventoryTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendBatch(ctx context.Context, txs []*inventory.InventoryTransaction) error {
	args := m.Called(ctx, txs)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]*inventory.InventoryTransaction, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.InventoryTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SumQuantityByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

// MockComponentRepository is a mock implementation of catalog.ComponentRepository
type MockComponentRepository struct {
	mock.Mock
}

func (m *MockComponentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Component, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Component), args.Error(1)
}

func (m *MockComponentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Component, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*catalog.Component), args.Error(1)
}

func (m *MockComponentRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Component, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Component), args.Error(1)
}

// MockWarehouseRepository is a mock implementation of catalog.WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockIdempotencyStore is an in-memory idempotency store for tests
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, payload, ttl)
	return args.Error(0)
}
