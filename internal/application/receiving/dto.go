package receiving

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/procurement"
)

// ReceiveCommand is one receiving batch against a purchase order.
// ReceivedAt is the effective receipt time for backdated deliveries; when nil
// the batch is stamped with the current time. IdempotencyKey is optional;
// when set, replaying the same key returns the stored summary of the first
// execution instead of receiving again.
type ReceiveCommand struct {
	OrderID        uuid.UUID
	ActorID        uuid.UUID
	Items          []procurement.ReceivingItem
	ReceivedAt     *time.Time
	Note           string
	IdempotencyKey string
}

// LineSummary reports the post-batch position of one order line
type LineSummary struct {
	DetailID         uuid.UUID `json:"detail_id"`
	ComponentID      uuid.UUID `json:"component_id"`
	ComponentName    string    `json:"component_name"`
	ComponentSKU     string    `json:"component_sku"`
	IsSerialized     bool      `json:"is_serialized"`
	ReceivedNow      int       `json:"received_now"`
	ReceivedQuantity int       `json:"received_quantity"`
	OrderedQuantity  int       `json:"ordered_quantity"`
	Serials          []string  `json:"serials,omitempty"`
}

// ReceiveSummary is the result of one receiving batch
type ReceiveSummary struct {
	OrderID       uuid.UUID     `json:"order_id"`
	OrderCode     string        `json:"order_code"`
	WarehouseID   uuid.UUID     `json:"warehouse_id"`
	WarehouseName string        `json:"warehouse_name"`
	Status        string        `json:"status"`
	ReceivedNow   int           `json:"received_now"`
	TotalReceived int           `json:"total_received"`
	TotalOrdered  int           `json:"total_ordered"`
	Remaining     int           `json:"remaining"`
	Lines         []LineSummary `json:"lines"`
	ReceivedAt    time.Time     `json:"received_at"`
}

// ReceivedItemView is one already-received position of an order,
// reconstructed from the inventory ledger.
type ReceivedItemView struct {
	DetailID         uuid.UUID `json:"detail_id"`
	ComponentID      uuid.UUID `json:"component_id"`
	ComponentName    string    `json:"component_name"`
	ComponentSKU     string    `json:"component_sku"`
	IsSerialized     bool      `json:"is_serialized"`
	OrderedQuantity  int       `json:"ordered_quantity"`
	ReceivedQuantity int       `json:"received_quantity"`
	Serials          []string  `json:"serials,omitempty"`
}

// HistoryEntryView is one audit trail record of an order
type HistoryEntryView struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	OldStatus   string    `json:"old_status,omitempty"`
	NewStatus   string    `json:"new_status"`
	ActorID     uuid.UUID `json:"actor_id"`
	Description string    `json:"description,omitempty"`
	Metadata    string    `json:"metadata,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// receiptPlan is the validated work derived from one batch, grouped per line
type receiptPlan struct {
	quantities map[uuid.UUID]int
	serialized map[uuid.UUID][]procurement.SerializedReceipt
	bulk       map[uuid.UUID][]procurement.BulkReceipt
	serials    []string
	imeis      []string
}

func defaultPrice(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback
}

func defaultWarranty(override *int, fallback int) int {
	if override != nil {
		return *override
	}
	return fallback
}
