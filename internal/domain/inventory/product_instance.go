package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
)

// InstanceStatus represents the lifecycle status of a serialized unit
type InstanceStatus string

const (
	InstanceStatusInStock      InstanceStatus = "IN_STOCK"
	InstanceStatusSold         InstanceStatus = "SOLD"
	InstanceStatusWarranty     InstanceStatus = "WARRANTY"
	InstanceStatusRepair       InstanceStatus = "REPAIR"
	InstanceStatusTransferring InstanceStatus = "TRANSFERRING"
	InstanceStatusBroken       InstanceStatus = "BROKEN"
	InstanceStatusScrapped     InstanceStatus = "SCRAPPED"
	InstanceStatusLost         InstanceStatus = "LOST"
	InstanceStatusDemo         InstanceStatus = "DEMO"
)

// IsValid checks if the status is a valid InstanceStatus
func (s InstanceStatus) IsValid() bool {
	switch s {
	case InstanceStatusInStock, InstanceStatusSold, InstanceStatusWarranty,
		InstanceStatusRepair, InstanceStatusTransferring, InstanceStatusBroken,
		InstanceStatusScrapped, InstanceStatusLost, InstanceStatusDemo:
		return true
	}
	return false
}

// String returns the string representation of InstanceStatus
func (s InstanceStatus) String() string {
	return string(s)
}

// OwnerType identifies who currently holds a serialized unit
type OwnerType string

const (
	OwnerTypeCompany  OwnerType = "COMPANY"
	OwnerTypeCustomer OwnerType = "CUSTOMER"
	OwnerTypeSupplier OwnerType = "SUPPLIER"
)

// ProductInstance is one physical, individually tracked unit of a serialized
// component. It is created exactly once, at receiving time; later lifecycle
// events (sale, repair, transfer) change status and ownership but never the
// identity fields (serial number, IMEIs).
type ProductInstance struct {
	shared.BaseEntity
	ComponentID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID             *uuid.UUID      `gorm:"type:uuid;index"`
	WarehouseID           *uuid.UUID      `gorm:"type:uuid;index"` // nil once sold or transferred out
	PurchaseOrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseOrderDetailID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SerialNumber          string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	IMEI1                 *string         `gorm:"type:varchar(50);uniqueIndex"`
	IMEI2                 *string         `gorm:"type:varchar(50);uniqueIndex"`
	MAC                   *string         `gorm:"type:varchar(50)"`
	Status                InstanceStatus  `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	ImportPrice           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ImportedAt            time.Time       `gorm:"not null"`
	WarrantyMonths        int             `gorm:"not null;default:0"`
	WarrantyStart         *time.Time
	WarrantyEnd           *time.Time
	OwnerType             OwnerType  `gorm:"type:varchar(20);not null;default:'COMPANY'"`
	OwnerID               *uuid.UUID `gorm:"type:uuid"`
}

// NewInstanceParams carries the inputs needed to register one serialized unit.
type NewInstanceParams struct {
	ComponentID           uuid.UUID
	VariantID             *uuid.UUID
	WarehouseID           uuid.UUID
	PurchaseOrderID       uuid.UUID
	PurchaseOrderDetailID uuid.UUID
	SerialNumber          string
	IMEI1                 *string
	IMEI2                 *string
	MAC                   *string
	ImportPrice           decimal.Decimal
	ImportedAt            time.Time
	WarrantyMonths        int
}

// NewProductInstance registers one serialized unit as company stock.
// The warranty window starts at the import date and runs WarrantyMonths
// months; a zero WarrantyMonths leaves the window unset.
func NewProductInstance(p NewInstanceParams) (*ProductInstance, error) {
	if p.ComponentID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Component ID cannot be empty")
	}
	if p.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse ID cannot be empty")
	}
	if p.SerialNumber == "" {
		return nil, shared.NewDomainError(shared.CodeMissingSerial, "Serial number is required for a serialized unit")
	}
	if p.ImportPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Import price cannot be negative")
	}
	if p.WarrantyMonths < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warranty months cannot be negative")
	}
	if p.ImportedAt.IsZero() {
		p.ImportedAt = time.Now()
	}

	warehouseID := p.WarehouseID
	instance := &ProductInstance{
		BaseEntity:            shared.NewBaseEntity(),
		ComponentID:           p.ComponentID,
		VariantID:             p.VariantID,
		WarehouseID:           &warehouseID,
		PurchaseOrderID:       p.PurchaseOrderID,
		PurchaseOrderDetailID: p.PurchaseOrderDetailID,
		SerialNumber:          p.SerialNumber,
		IMEI1:                 normalizeIdentity(p.IMEI1),
		IMEI2:                 normalizeIdentity(p.IMEI2),
		MAC:                   normalizeIdentity(p.MAC),
		Status:                InstanceStatusInStock,
		ImportPrice:           p.ImportPrice,
		ImportedAt:            p.ImportedAt,
		WarrantyMonths:        p.WarrantyMonths,
		OwnerType:             OwnerTypeCompany,
	}

	if p.WarrantyMonths > 0 {
		start := p.ImportedAt
		end := start.AddDate(0, p.WarrantyMonths, 0)
		instance.WarrantyStart = &start
		instance.WarrantyEnd = &end
	}

	return instance, nil
}

// IsInStock returns true if the unit is available in a warehouse
func (i *ProductInstance) IsInStock() bool {
	return i.Status == InstanceStatusInStock && i.WarehouseID != nil
}

// UnderWarranty returns true if the unit is within its warranty window at t
func (i *ProductInstance) UnderWarranty(t time.Time) bool {
	if i.WarrantyStart == nil || i.WarrantyEnd == nil {
		return false
	}
	return !t.Before(*i.WarrantyStart) && !t.After(*i.WarrantyEnd)
}

// ChangeStatus moves the unit to a new lifecycle status. Identity fields are
// never touched here; serials are permanent.
func (i *ProductInstance) ChangeStatus(status InstanceStatus) error {
	if !status.IsValid() {
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid instance status %q", status)
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// normalizeIdentity maps empty-string identity fields to nil so the unique
// indexes only apply to real values.
func normalizeIdentity(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}
