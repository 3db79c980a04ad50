package receiving

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/procurement"
	"github.com/warehouse/backend/internal/domain/shared"
)

type serviceFixture struct {
	service      *Service
	orderRepo    *MockPurchaseOrderRepository
	historyRepo  *MockHistoryRepository
	instanceRepo *MockInstanceRepository
	stockRepo    *MockStockRepository
	ledgerRepo   *MockLedgerRepository
	components   *MockComponentRepository
	warehouses   *MockWarehouseRepository
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		orderRepo:    new(MockPurchaseOrderRepository),
		historyRepo:  new(MockHistoryRepository),
		instanceRepo: new(MockInstanceRepository),
		stockRepo:    new(MockStockRepository),
		ledgerRepo:   new(MockLedgerRepository),
		components:   new(MockComponentRepository),
		warehouses:   new(MockWarehouseRepository),
	}
	scope := NewNoOpTransactionScope(f.orderRepo, f.historyRepo, f.instanceRepo, f.stockRepo, f.ledgerRepo)
	f.service = NewService(scope, f.components, f.warehouses)
	return f
}

func newTestWarehouse(t *testing.T) *catalog.Warehouse {
	warehouse, err := catalog.NewWarehouse("WH-HCM", "Main Warehouse")
	require.NoError(t, err)
	return warehouse
}

// newConfirmedOrder builds an order with one serialized line (phones, qty 2)
// and one bulk line (cables, qty 10).
func newConfirmedOrder(t *testing.T) (*procurement.PurchaseOrder, *catalog.Component) {
	phone, err := catalog.NewComponent("PHONE-X", "Phone X", true, 12)
	require.NoError(t, err)

	order, err := procurement.NewPurchaseOrder("PO-2026-00042", uuid.New(), "Acme Supply", uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = order.AddDetail(phone.ID, nil, phone.Name, phone.SKU, true, 2, decimal.NewFromInt(500))
	require.NoError(t, err)
	_, err = order.AddDetail(uuid.New(), nil, "USB Cable", "CABLE-1", false, 10, decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, order.Confirm())
	return order, phone
}

func serializedItem(detailID uuid.UUID, serial string) procurement.ReceivingItem {
	return procurement.ReceivingItem{
		DetailID:   detailID,
		Serialized: &procurement.SerializedReceipt{SerialNumber: serial},
	}
}

func bulkItem(detailID uuid.UUID, qty int) procurement.ReceivingItem {
	return procurement.ReceivingItem{
		DetailID: detailID,
		Bulk:     &procurement.BulkReceipt{Quantity: qty},
	}
}

func TestService_Receive_MixedBatchPartial(t *testing.T) {
	f := newServiceFixture()
	order, phone := newConfirmedOrder(t)
	serializedDetail := order.Details[0]
	bulkDetail := order.Details[1]

	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)
	f.instanceRepo.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything).Return([]inventory.IdentityConflict{}, nil)
	f.components.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*catalog.Component{phone.ID: phone}, nil)
	f.instanceRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("IncrementOnHand", mock.Anything, order.WarehouseID, bulkDetail.ComponentID, uuid.Nil, 5, "").Return(nil)
	f.ledgerRepo.On("AppendBatch", mock.Anything, mock.Anything).Return(nil)
	f.historyRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, order, order.GetVersion()).Return(nil)
	f.warehouses.On("FindByID", mock.Anything, order.WarehouseID).Return(newTestWarehouse(t), nil)

	summary, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items: []procurement.ReceivingItem{
			serializedItem(serializedDetail.ID, "SN-100"),
			bulkItem(bulkDetail.ID, 5),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, procurement.PurchaseOrderStatusPartial.String(), summary.Status)
	assert.Equal(t, "Main Warehouse", summary.WarehouseName)
	assert.Equal(t, 6, summary.ReceivedNow)
	assert.Equal(t, 6, summary.TotalReceived)
	assert.Equal(t, 12, summary.TotalOrdered)
	assert.Equal(t, 6, summary.Remaining)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, []string{"SN-100"}, summary.Lines[0].Serials)

	// Created instance inherits the component's default warranty and the
	// line's unit price
	instances := f.instanceRepo.Calls[1].Arguments.Get(1).([]*inventory.ProductInstance)
	require.Len(t, instances, 1)
	assert.Equal(t, "SN-100", instances[0].SerialNumber)
	assert.Equal(t, 12, instances[0].WarrantyMonths)
	assert.True(t, decimal.NewFromInt(500).Equal(instances[0].ImportPrice))

	// One ledger entry per serialized unit plus one per bulk line
	entries := f.ledgerRepo.Calls[0].Arguments.Get(1).([]*inventory.InventoryTransaction)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, inventory.TransactionTypeImport, e.Type)
		assert.Equal(t, order.ID, e.ReferenceID)
	}

	f.orderRepo.AssertExpectations(t)
	f.stockRepo.AssertExpectations(t)
}

func TestService_Receive_FullDelivery(t *testing.T) {
	f := newServiceFixture()
	order, phone := newConfirmedOrder(t)

	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)
	f.instanceRepo.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything).Return([]inventory.IdentityConflict{}, nil)
	f.components.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*catalog.Component{phone.ID: phone}, nil)
	f.instanceRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.stockRepo.On("IncrementOnHand", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.ledgerRepo.On("AppendBatch", mock.Anything, mock.Anything).Return(nil)
	f.historyRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, order, mock.Anything).Return(nil)
	f.warehouses.On("FindByID", mock.Anything, order.WarehouseID).Return(newTestWarehouse(t), nil)

	summary, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items: []procurement.ReceivingItem{
			serializedItem(order.Details[0].ID, "SN-1"),
			serializedItem(order.Details[0].ID, "SN-2"),
			bulkItem(order.Details[1].ID, 10),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, procurement.PurchaseOrderStatusDelivered.String(), summary.Status)
	assert.Equal(t, 0, summary.Remaining)
	assert.NotNil(t, order.ActualDeliveryDate)

	// Audit record carries the terminal action
	entry := f.historyRepo.Calls[0].Arguments.Get(1).(*procurement.PurchaseOrderHistory)
	assert.Equal(t, procurement.HistoryActionFullyReceived, entry.Action)
}

func TestService_Receive_BackdatedReceipt(t *testing.T) {
	f := newServiceFixture()
	order, phone := newConfirmedOrder(t)
	receivedAt := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)
	f.instanceRepo.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything).Return([]inventory.IdentityConflict{}, nil)
	f.components.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*catalog.Component{phone.ID: phone}, nil)
	f.instanceRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.ledgerRepo.On("AppendBatch", mock.Anything, mock.Anything).Return(nil)
	f.historyRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, order, mock.Anything).Return(nil)
	f.warehouses.On("FindByID", mock.Anything, order.WarehouseID).Return(newTestWarehouse(t), nil)

	summary, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID:    order.ID,
		ActorID:    uuid.New(),
		ReceivedAt: &receivedAt,
		Items:      []procurement.ReceivingItem{serializedItem(order.Details[0].ID, "SN-9")},
	})

	require.NoError(t, err)
	assert.True(t, summary.ReceivedAt.Equal(receivedAt))

	instances := f.instanceRepo.Calls[1].Arguments.Get(1).([]*inventory.ProductInstance)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].ImportedAt.Equal(receivedAt))
}

func TestService_Receive_EmptyBatch(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: uuid.New(),
		ActorID: uuid.New(),
	})

	assert.Equal(t, shared.CodeEmptyReceivingBatch, shared.CodeOf(err))
	f.orderRepo.AssertNotCalled(t, "FindByIDForReceiving", mock.Anything, mock.Anything)
}

func TestService_Receive_OrderNotFound(t *testing.T) {
	f := newServiceFixture()
	orderID := uuid.New()
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: orderID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{bulkItem(uuid.New(), 1)},
	})

	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}

func TestService_Receive_PendingOrderRejected(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	pending, err := procurement.NewPurchaseOrder("PO-2026-00043", uuid.New(), "Acme", uuid.New(), uuid.New())
	require.NoError(t, err)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, pending.ID).Return(pending, nil)

	_, err = f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: pending.ID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{bulkItem(order.Details[1].ID, 1)},
	})

	assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	f.instanceRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestService_Receive_UnknownDetailCarriesItemIndex(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items: []procurement.ReceivingItem{
			bulkItem(order.Details[1].ID, 1),
			bulkItem(uuid.New(), 1),
		},
	})

	assert.Equal(t, shared.CodeDetailNotFound, shared.CodeOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "item 1:"))
}

func TestService_Receive_MissingSerial(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)

	// Bulk payload against the serialized line
	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{bulkItem(order.Details[0].ID, 2)},
	})

	assert.Equal(t, shared.CodeMissingSerial, shared.CodeOf(err))
}

func TestService_Receive_UnexpectedSerial(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{serializedItem(order.Details[1].ID, "SN-1")},
	})

	assert.Equal(t, shared.CodeUnexpectedSerial, shared.CodeOf(err))
}

func TestService_Receive_DuplicateSerialWithinBatch(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items: []procurement.ReceivingItem{
			serializedItem(order.Details[0].ID, "SN-1"),
			serializedItem(order.Details[0].ID, "SN-1"),
		},
	})

	assert.Equal(t, shared.CodeDuplicateSerialOrImei, shared.CodeOf(err))
	f.instanceRepo.AssertNotCalled(t, "FindConflicts", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Receive_DuplicateSerialAlreadyRegistered(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)
	f.instanceRepo.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything).Return([]inventory.IdentityConflict{
		{Kind: inventory.ConflictSerialNumber, Value: "SN-1"},
	}, nil)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{serializedItem(order.Details[0].ID, "SN-1")},
	})

	assert.Equal(t, shared.CodeDuplicateSerialOrImei, shared.CodeOf(err))
	assert.Contains(t, err.Error(), "SN-1")
	f.instanceRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Receive_OverReceivingWritesNothing(t *testing.T) {
	f := newServiceFixture()
	order, phone := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)
	f.instanceRepo.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything).Return([]inventory.IdentityConflict{}, nil)
	f.components.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*catalog.Component{phone.ID: phone}, nil)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{bulkItem(order.Details[1].ID, 11)},
	})

	assert.Equal(t, shared.CodeOverReceiving, shared.CodeOf(err))
	f.instanceRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	f.stockRepo.AssertNotCalled(t, "IncrementOnHand", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ledgerRepo.AssertNotCalled(t, "AppendBatch", mock.Anything, mock.Anything)
	f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Receive_ConcurrentModificationSurfaces(t *testing.T) {
	f := newServiceFixture()
	order, phone := newConfirmedOrder(t)
	f.orderRepo.On("FindByIDForReceiving", mock.Anything, order.ID).Return(order, nil)
	f.instanceRepo.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything).Return([]inventory.IdentityConflict{}, nil)
	f.components.On("FindByIDs", mock.Anything, mock.Anything).Return(map[uuid.UUID]*catalog.Component{phone.ID: phone}, nil)
	f.stockRepo.On("IncrementOnHand", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.ledgerRepo.On("AppendBatch", mock.Anything, mock.Anything).Return(nil)
	f.historyRepo.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orderRepo.On("SaveWithLock", mock.Anything, order, mock.Anything).Return(shared.ErrConcurrentModification)

	_, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Items:   []procurement.ReceivingItem{bulkItem(order.Details[1].ID, 3)},
	})

	assert.Equal(t, shared.CodeConcurrentModification, shared.CodeOf(err))
}

func TestService_Receive_IdempotentReplay(t *testing.T) {
	f := newServiceFixture()
	store := new(MockIdempotencyStore)
	f.service.SetIdempotencyStore(store)

	stored := ReceiveSummary{OrderCode: "PO-2026-00042", Status: "PARTIAL", ReceivedNow: 5}
	payload, err := json.Marshal(stored)
	require.NoError(t, err)
	store.On("Get", mock.Anything, "batch-1").Return(payload, true, nil)

	summary, err := f.service.Receive(context.Background(), ReceiveCommand{
		OrderID:        uuid.New(),
		ActorID:        uuid.New(),
		Items:          []procurement.ReceivingItem{bulkItem(uuid.New(), 5)},
		IdempotencyKey: "batch-1",
	})

	require.NoError(t, err)
	assert.Equal(t, stored.ReceivedNow, summary.ReceivedNow)
	f.orderRepo.AssertNotCalled(t, "FindByIDForReceiving", mock.Anything, mock.Anything)
}

func TestService_GetReceivedItems(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	serializedDetail := order.Details[0]
	bulkDetail := order.Details[1]

	instance, err := inventory.NewProductInstance(inventory.NewInstanceParams{
		ComponentID:           serializedDetail.ComponentID,
		WarehouseID:           order.WarehouseID,
		PurchaseOrderID:       order.ID,
		PurchaseOrderDetailID: serializedDetail.ID,
		SerialNumber:          "SN-7",
		ImportPrice:           decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.ledgerRepo.On("SumQuantityByReference", mock.Anything, inventory.ReferenceTypePurchaseOrder, order.ID).Return(map[uuid.UUID]int{
		serializedDetail.ID: 1,
		bulkDetail.ID:       4,
	}, nil)
	f.instanceRepo.On("FindByPurchaseOrder", mock.Anything, order.ID).Return([]*inventory.ProductInstance{instance}, nil)

	views, err := f.service.GetReceivedItems(context.Background(), order.ID)

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 1, views[0].ReceivedQuantity)
	assert.Equal(t, []string{"SN-7"}, views[0].Serials)
	assert.Equal(t, 4, views[1].ReceivedQuantity)
	assert.Empty(t, views[1].Serials)
}

func TestService_GetHistory(t *testing.T) {
	f := newServiceFixture()
	order, _ := newConfirmedOrder(t)
	entry, err := procurement.NewHistory(order.ID, procurement.HistoryActionConfirmed,
		procurement.PurchaseOrderStatusPending, procurement.PurchaseOrderStatusConfirmed,
		uuid.New(), "confirmed by buyer", "")
	require.NoError(t, err)

	f.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.historyRepo.On("FindByOrder", mock.Anything, order.ID).Return([]*procurement.PurchaseOrderHistory{entry}, nil)

	views, err := f.service.GetHistory(context.Background(), order.ID)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "CONFIRMED", views[0].Action)
	assert.Equal(t, "PENDING", views[0].OldStatus)
}

func TestService_GetHistory_OrderNotFound(t *testing.T) {
	f := newServiceFixture()
	orderID := uuid.New()
	f.orderRepo.On("FindByID", mock.Anything, orderID).Return(nil, shared.ErrNotFound)

	_, err := f.service.GetHistory(context.Background(), orderID)

	assert.Equal(t, shared.CodeNotFound, shared.CodeOf(err))
}
