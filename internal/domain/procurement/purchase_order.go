package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusConfirmed PurchaseOrderStatus = "CONFIRMED"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseOrderStatusDelivered PurchaseOrderStatus = "DELIVERED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusConfirmed, PurchaseOrderStatusPartial,
		PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusConfirmed || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusDelivered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusPartial:
		return target == PurchaseOrderStatusPartial || target == PurchaseOrderStatusDelivered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusDelivered, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusConfirmed || s == PurchaseOrderStatusPartial
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusDelivered || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderDetail is one line item of a purchase order. Quantities are
// whole units; a serialized component receives its units one instance at a
// time, so for those lines ReceivedQuantity equals the number of registered
// instances.
type PurchaseOrderDetail struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID      uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID        *uuid.UUID      `gorm:"type:uuid"`
	ComponentName    string          `gorm:"type:varchar(200);not null"`
	ComponentSKU     string          `gorm:"type:varchar(50);not null"`
	IsSerialized     bool            `gorm:"not null;default:false"`
	OrderedQuantity  int             `gorm:"not null"`
	ReceivedQuantity int             `gorm:"not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note             string          `gorm:"type:varchar(500)"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
	DeletedAt        gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (PurchaseOrderDetail) TableName() string {
	return "purchase_order_details"
}

// NewPurchaseOrderDetail creates a new order line
func NewPurchaseOrderDetail(orderID, componentID uuid.UUID, variantID *uuid.UUID, componentName, componentSKU string, isSerialized bool, quantity int, unitPrice decimal.Decimal) (*PurchaseOrderDetail, error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Component ID cannot be empty")
	}
	if componentName == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Component name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unit price cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderDetail{
		ID:              uuid.New(),
		PurchaseOrderID: orderID,
		ComponentID:     componentID,
		VariantID:       variantID,
		ComponentName:   componentName,
		ComponentSKU:    componentSKU,
		IsSerialized:    isSerialized,
		OrderedQuantity: quantity,
		UnitPrice:       unitPrice,
		Amount:          unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// RemainingQuantity returns the quantity still to be received
func (d *PurchaseOrderDetail) RemainingQuantity() int {
	remaining := d.OrderedQuantity - d.ReceivedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (d *PurchaseOrderDetail) IsFullyReceived() bool {
	return d.ReceivedQuantity >= d.OrderedQuantity
}

// AddReceived adds to the received counter, refusing to exceed the ordered
// quantity. The counter is a cache over the inventory ledger and may only be
// advanced inside the same transaction as the matching ledger entries.
func (d *PurchaseOrderDetail) AddReceived(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Receive quantity must be positive")
	}
	if d.ReceivedQuantity+quantity > d.OrderedQuantity {
		return shared.NewDomainErrorf(shared.CodeOverReceiving,
			"Cannot receive %d, only %d remaining of %d ordered", quantity, d.RemainingQuantity(), d.OrderedQuantity)
	}

	d.ReceivedQuantity += quantity
	d.UpdatedAt = time.Now()

	return nil
}

// UpdateQuantity changes the ordered quantity of a pending line
func (d *PurchaseOrderDetail) UpdateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Ordered quantity must be positive")
	}

	d.OrderedQuantity = quantity
	d.Amount = d.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	d.UpdatedAt = time.Now()

	return nil
}

// PurchaseOrder is the aggregate root for a supplier order. It owns the
// lifecycle state machine and the per-line received counters; everything the
// receiving flow decides about over-receiving and status derivation goes
// through this type.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	Code               string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	SupplierName       string                `gorm:"type:varchar(200);not null"`
	WarehouseID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	Details            []PurchaseOrderDetail `gorm:"foreignKey:PurchaseOrderID;references:ID"`
	TotalAmount        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	FinalAmount        decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status             PurchaseOrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ExpectedDelivery   *time.Time
	ActualDeliveryDate *time.Time
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CancelReason       string         `gorm:"type:varchar(500)"`
	Note               string         `gorm:"type:text"`
	CreatedBy          uuid.UUID      `gorm:"type:uuid;not null"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new order in PENDING status
func NewPurchaseOrder(code string, supplierID uuid.UUID, supplierName string, warehouseID uuid.UUID, createdBy uuid.UUID) (*PurchaseOrder, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Order code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Order code cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse ID cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		WarehouseID:       warehouseID,
		Details:           make([]PurchaseOrderDetail, 0),
		TotalAmount:       decimal.Zero,
		DiscountAmount:    decimal.Zero,
		FinalAmount:       decimal.Zero,
		Status:            PurchaseOrderStatusPending,
		CreatedBy:         createdBy,
	}, nil
}

// AddDetail adds a new line to the order. Only allowed in PENDING status.
func (o *PurchaseOrder) AddDetail(componentID uuid.UUID, variantID *uuid.UUID, componentName, componentSKU string, isSerialized bool, quantity int, unitPrice decimal.Decimal) (*PurchaseOrderDetail, error) {
	if o.Status != PurchaseOrderStatusPending {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot add lines to order in %s status", o.Status)
	}

	for _, d := range o.Details {
		if d.ComponentID == componentID && equalVariant(d.VariantID, variantID) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Component already on order, update quantity instead")
		}
	}

	detail, err := NewPurchaseOrderDetail(o.ID, componentID, variantID, componentName, componentSKU, isSerialized, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Details = append(o.Details, *detail)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return detail, nil
}

// UpdateDetailQuantity updates the ordered quantity of a line.
// Only allowed in PENDING status.
func (o *PurchaseOrder) UpdateDetailQuantity(detailID uuid.UUID, quantity int) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot update lines of order in %s status", o.Status)
	}

	for idx := range o.Details {
		if o.Details[idx].ID == detailID {
			if err := o.Details[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeDetailNotFound, "Order line not found")
}

// RemoveDetail removes a line from the order. Only allowed in PENDING status.
func (o *PurchaseOrder) RemoveDetail(detailID uuid.UUID) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot remove lines from order in %s status", o.Status)
	}

	for idx, d := range o.Details {
		if d.ID == detailID {
			o.Details = append(o.Details[:idx], o.Details[idx+1:]...)
			o.recalculateTotals()
			o.UpdatedAt = time.Now()
			o.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeDetailNotFound, "Order line not found")
}

// ApplyDiscount applies an order-level discount. Only allowed in PENDING status.
func (o *PurchaseOrder) ApplyDiscount(discount decimal.Decimal) error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot apply discount to order in %s status", o.Status)
	}
	if discount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Discount cannot be negative")
	}
	if discount.GreaterThan(o.TotalAmount) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Discount cannot exceed total amount")
	}

	o.DiscountAmount = discount
	o.FinalAmount = o.TotalAmount.Sub(o.DiscountAmount)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Confirm transitions the order from PENDING to CONFIRMED.
// Requires at least one line.
func (o *PurchaseOrder) Confirm() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusConfirmed) {
		return shared.NewDomainErrorf(shared.CodeInvalidTransition, "Cannot confirm order in %s status", o.Status)
	}
	if len(o.Details) == 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot confirm order without lines")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// Cancel moves the order to the CANCELLED terminal state. Allowed from any
// non-terminal status. Stock already received through a PARTIAL order is not
// reversed; the ledger keeps the import entries and the counters stand.
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainErrorf(shared.CodeInvalidTransition, "Cannot cancel order in %s status", o.Status)
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Cancel reason is required")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// ApplyReceipt advances the received counters for the given lines and derives
// the resulting status: DELIVERED when every line is fully received, PARTIAL
// otherwise. quantities maps detail ID to the quantity received now.
func (o *PurchaseOrder) ApplyReceipt(quantities map[uuid.UUID]int) error {
	if !o.Status.CanReceive() {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot receive goods for order in %s status", o.Status)
	}
	if len(quantities) == 0 {
		return shared.NewDomainError(shared.CodeEmptyReceivingBatch, "Receiving batch cannot be empty")
	}

	for detailID, qty := range quantities {
		detail := o.GetDetail(detailID)
		if detail == nil {
			return shared.NewDomainErrorf(shared.CodeDetailNotFound, "Order line %s not found", detailID)
		}
		if err := detail.AddReceived(qty); err != nil {
			if de, ok := err.(*shared.DomainError); ok {
				return shared.NewDomainErrorf(de.Code, "Line %s: %s", detail.ComponentSKU, de.Message)
			}
			return err
		}
	}

	now := time.Now()
	if o.isFullyReceived() {
		o.Status = PurchaseOrderStatusDelivered
		o.ActualDeliveryDate = &now
	} else {
		o.Status = PurchaseOrderStatusPartial
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// GetDetail returns a line by its ID, or nil
func (o *PurchaseOrder) GetDetail(detailID uuid.UUID) *PurchaseOrderDetail {
	for idx := range o.Details {
		if o.Details[idx].ID == detailID {
			return &o.Details[idx]
		}
	}
	return nil
}

// HasReceivedAnyGoods returns true if any line has received stock
func (o *PurchaseOrder) HasReceivedAnyGoods() bool {
	for _, d := range o.Details {
		if d.ReceivedQuantity > 0 {
			return true
		}
	}
	return false
}

// TotalOrderedQuantity returns the sum of ordered quantities over all lines
func (o *PurchaseOrder) TotalOrderedQuantity() int {
	total := 0
	for _, d := range o.Details {
		total += d.OrderedQuantity
	}
	return total
}

// TotalReceivedQuantity returns the sum of received quantities over all lines
func (o *PurchaseOrder) TotalReceivedQuantity() int {
	total := 0
	for _, d := range o.Details {
		total += d.ReceivedQuantity
	}
	return total
}

// TotalRemainingQuantity returns the quantity still expected
func (o *PurchaseOrder) TotalRemainingQuantity() int {
	total := 0
	for _, d := range o.Details {
		total += d.RemainingQuantity()
	}
	return total
}

// ReceiveProgress returns the receiving progress as a percentage (0-100)
func (o *PurchaseOrder) ReceiveProgress() decimal.Decimal {
	ordered := o.TotalOrderedQuantity()
	if ordered == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(o.TotalReceivedQuantity())).
		Div(decimal.NewFromInt(int64(ordered))).
		Mul(decimal.NewFromInt(100)).Round(2)
}

// IsPending returns true if the order has not been confirmed yet
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == PurchaseOrderStatusPending
}

// IsConfirmed returns true if the order is confirmed
func (o *PurchaseOrder) IsConfirmed() bool {
	return o.Status == PurchaseOrderStatusConfirmed
}

// IsDelivered returns true if the order is fully received
func (o *PurchaseOrder) IsDelivered() bool {
	return o.Status == PurchaseOrderStatusDelivered
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// CanModify returns true if lines and discount can still change
func (o *PurchaseOrder) CanModify() bool {
	return o.IsPending()
}

func (o *PurchaseOrder) recalculateTotals() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Amount)
	}
	o.TotalAmount = total
	o.FinalAmount = o.TotalAmount.Sub(o.DiscountAmount)

	if o.FinalAmount.IsNegative() {
		o.DiscountAmount = o.TotalAmount
		o.FinalAmount = decimal.Zero
	}
}

func (o *PurchaseOrder) isFullyReceived() bool {
	for _, d := range o.Details {
		if !d.IsFullyReceived() {
			return false
		}
	}
	return len(o.Details) > 0
}

func equalVariant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
