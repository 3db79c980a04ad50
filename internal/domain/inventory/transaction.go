package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// TransactionType represents the type of inventory movement
type TransactionType string

const (
	// TransactionTypeImport is stock entering a warehouse (purchase receiving)
	TransactionTypeImport TransactionType = "IMPORT"
	// TransactionTypeExport is stock leaving a warehouse (sales shipment)
	TransactionTypeExport TransactionType = "EXPORT"
	// TransactionTypeTransfer is stock moving between warehouses
	TransactionTypeTransfer TransactionType = "TRANSFER"
	// TransactionTypeAdjustment is a manual correction (stock taking)
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeImport, TransactionTypeExport, TransactionTypeTransfer, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReferenceType identifies the source document of a movement
type ReferenceType string

const (
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTypeSalesOrder    ReferenceType = "SALES_ORDER"
	ReferenceTypeTransferOrder ReferenceType = "TRANSFER_ORDER"
	ReferenceTypeStockTaking   ReferenceType = "STOCK_TAKING"
)

// InventoryTransaction is one immutable ledger entry for a stock movement.
// The ledger is the audit source of truth for how much of a component is in
// a warehouse, independent of the mutable WarehouseStock cache. Entries are
// never updated or deleted; corrections are new ADJUSTMENT entries.
//
// Quantity is signed: positive for IMPORT, negative for EXPORT, either sign
// for TRANSFER and ADJUSTMENT. InstanceID is set only for serialized
// movements, which always carry quantity +1 or -1.
type InventoryTransaction struct {
	shared.BaseEntity
	Type          TransactionType `gorm:"type:varchar(20);not null;index"`
	ReferenceType ReferenceType   `gorm:"type:varchar(30);not null;index:idx_inv_tx_reference,priority:1"`
	ReferenceID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_reference,priority:2"`
	// ReferenceDetailID points at the line item of the source document,
	// when it has line items (a purchase order detail).
	ReferenceDetailID *uuid.UUID `gorm:"type:uuid;index"`
	WarehouseID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ComponentID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID         *uuid.UUID `gorm:"type:uuid"`
	InstanceID        *uuid.UUID `gorm:"type:uuid;index"`
	Quantity          int        `gorm:"not null"`
	ActorID           uuid.UUID  `gorm:"type:uuid;not null"`
	OccurredAt        time.Time  `gorm:"type:timestamptz;not null;index"`
	Note              string     `gorm:"type:varchar(255)"`
}

// NewTransactionParams carries the inputs for one ledger entry.
type NewTransactionParams struct {
	Type              TransactionType
	ReferenceType     ReferenceType
	ReferenceID       uuid.UUID
	ReferenceDetailID *uuid.UUID
	WarehouseID       uuid.UUID
	ComponentID       uuid.UUID
	VariantID         *uuid.UUID
	InstanceID        *uuid.UUID
	Quantity          int
	ActorID           uuid.UUID
	OccurredAt        time.Time
	Note              string
}

// NewInventoryTransaction creates a ledger entry, enforcing that the sign of
// the quantity matches the movement type.
func NewInventoryTransaction(p NewTransactionParams) (*InventoryTransaction, error) {
	if !p.Type.IsValid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid transaction type %q", p.Type)
	}
	if p.ReferenceID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Reference ID cannot be empty")
	}
	if p.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse ID cannot be empty")
	}
	if p.ComponentID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Component ID cannot be empty")
	}
	if p.ActorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Actor ID cannot be empty")
	}
	if p.Quantity == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Quantity cannot be zero")
	}
	if p.Type == TransactionTypeImport && p.Quantity < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Import quantity must be positive")
	}
	if p.Type == TransactionTypeExport && p.Quantity > 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Export quantity must be negative")
	}
	if p.InstanceID != nil && p.Quantity != 1 && p.Quantity != -1 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Serialized movements carry exactly one unit")
	}
	if p.OccurredAt.IsZero() {
		p.OccurredAt = time.Now()
	}

	return &InventoryTransaction{
		BaseEntity:        shared.NewBaseEntity(),
		Type:              p.Type,
		ReferenceType:     p.ReferenceType,
		ReferenceID:       p.ReferenceID,
		ReferenceDetailID: p.ReferenceDetailID,
		WarehouseID:       p.WarehouseID,
		ComponentID:       p.ComponentID,
		VariantID:         p.VariantID,
		InstanceID:        p.InstanceID,
		Quantity:          p.Quantity,
		ActorID:           p.ActorID,
		OccurredAt:        p.OccurredAt,
		Note:              p.Note,
	}, nil
}

// IsSerialized returns true if this entry tracks a single serialized unit
func (t *InventoryTransaction) IsSerialized() bool {
	return t.InstanceID != nil
}
