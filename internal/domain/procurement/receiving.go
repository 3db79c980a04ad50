package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
)

// SerializedReceipt carries the identity of one physical serialized unit
// being received. Exactly one unit per receipt; a line expecting ten phones
// appears as ten SerializedReceipt entries.
type SerializedReceipt struct {
	SerialNumber   string
	IMEI1          *string
	IMEI2          *string
	MAC            *string
	WarrantyMonths *int
	ImportPrice    *decimal.Decimal
	LocationCode   string
}

// BulkReceipt carries a counted quantity of a non-serialized line.
type BulkReceipt struct {
	Quantity     int
	LocationCode string
}

// ReceivingItem is one entry in a receiving batch, referencing an order line
// and carrying either serialized identity or a bulk count, never both. Which
// arm must be set is decided by the component of the referenced line.
type ReceivingItem struct {
	DetailID   uuid.UUID
	Serialized *SerializedReceipt
	Bulk       *BulkReceipt
}

// Validate checks the structural shape of the item against the serialization
// mode of the order line it references.
func (r ReceivingItem) Validate(isSerialized bool) error {
	if r.DetailID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Receiving item must reference an order line")
	}
	if r.Serialized != nil && r.Bulk != nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Receiving item cannot carry both serialized and bulk payloads")
	}

	if isSerialized {
		if r.Serialized == nil {
			return shared.NewDomainError(shared.CodeMissingSerial, "Serialized line requires a serial number per unit")
		}
		if r.Serialized.SerialNumber == "" {
			return shared.NewDomainError(shared.CodeMissingSerial, "Serial number cannot be empty")
		}
		if r.Serialized.ImportPrice != nil && r.Serialized.ImportPrice.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "Import price cannot be negative")
		}
		if r.Serialized.WarrantyMonths != nil && *r.Serialized.WarrantyMonths < 0 {
			return shared.NewDomainError(shared.CodeInvalidInput, "Warranty months cannot be negative")
		}
		return nil
	}

	if r.Serialized != nil {
		return shared.NewDomainError(shared.CodeUnexpectedSerial, "Bulk line must not carry serial numbers")
	}
	if r.Bulk == nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Bulk line requires a quantity")
	}
	if r.Bulk.Quantity <= 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Bulk quantity must be positive")
	}
	return nil
}

// Quantity returns the number of units this item adds to its line:
// 1 for serialized receipts, the counted quantity for bulk.
func (r ReceivingItem) Quantity() int {
	if r.Serialized != nil {
		return 1
	}
	if r.Bulk != nil {
		return r.Bulk.Quantity
	}
	return 0
}
