package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warehouse/backend/internal/domain/procurement"
)

// SerializedReceiptRequest carries the identity of one serialized unit
type SerializedReceiptRequest struct {
	SerialNumber   string           `json:"serial_number" binding:"required"`
	IMEI1          *string          `json:"imei1"`
	IMEI2          *string          `json:"imei2"`
	MAC            *string          `json:"mac"`
	WarrantyMonths *int             `json:"warranty_months"`
	ImportPrice    *decimal.Decimal `json:"import_price"`
	LocationCode   string           `json:"location_code"`
}

// BulkReceiptRequest carries a counted quantity of a bulk line
type BulkReceiptRequest struct {
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	LocationCode string `json:"location_code"`
}

// ReceiveItemRequest is one entry of a receiving batch. Exactly one of
// Serialized or Bulk must be set, matching the referenced order line.
type ReceiveItemRequest struct {
	DetailID   uuid.UUID                 `json:"detail_id" binding:"required"`
	Serialized *SerializedReceiptRequest `json:"serialized"`
	Bulk       *BulkReceiptRequest       `json:"bulk"`
}

// ReceiveRequest is the body of a receive call. ReceivedDate backdates the
// batch; when omitted the server time is used.
type ReceiveRequest struct {
	Items        []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
	ReceivedDate *time.Time           `json:"received_date"`
	Note         string               `json:"note"`
}

// ToItems converts the request into domain receiving items
func (r ReceiveRequest) ToItems() []procurement.ReceivingItem {
	items := make([]procurement.ReceivingItem, 0, len(r.Items))
	for _, it := range r.Items {
		item := procurement.ReceivingItem{DetailID: it.DetailID}
		if it.Serialized != nil {
			item.Serialized = &procurement.SerializedReceipt{
				SerialNumber:   it.Serialized.SerialNumber,
				IMEI1:          it.Serialized.IMEI1,
				IMEI2:          it.Serialized.IMEI2,
				MAC:            it.Serialized.MAC,
				WarrantyMonths: it.Serialized.WarrantyMonths,
				ImportPrice:    it.Serialized.ImportPrice,
				LocationCode:   it.Serialized.LocationCode,
			}
		}
		if it.Bulk != nil {
			item.Bulk = &procurement.BulkReceipt{
				Quantity:     it.Bulk.Quantity,
				LocationCode: it.Bulk.LocationCode,
			}
		}
		items = append(items, item)
	}
	return items
}
