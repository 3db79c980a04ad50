package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/shared"
)

// Component is a catalog definition of a purchasable item. The serialization
// flag decides which inventory representation every unit of the component
// uses: serialized components become one ProductInstance per physical unit,
// bulk components become quantity counters per warehouse.
//
// Components are read-only inputs to the receiving engine; catalog management
// lives elsewhere.
type Component struct {
	shared.BaseEntity
	SKU                   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                  string          `gorm:"type:varchar(200);not null"`
	IsSerialized          bool            `gorm:"not null;default:false"`
	DefaultWarrantyMonths int             `gorm:"not null;default:0"`
	ListPrice             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// NewComponent creates a new catalog component
func NewComponent(sku, name string, isSerialized bool, defaultWarrantyMonths int) (*Component, error) {
	if sku == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Component name cannot be empty")
	}
	if defaultWarrantyMonths < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Default warranty months cannot be negative")
	}

	return &Component{
		BaseEntity:            shared.NewBaseEntity(),
		SKU:                   sku,
		Name:                  name,
		IsSerialized:          isSerialized,
		DefaultWarrantyMonths: defaultWarrantyMonths,
		ListPrice:             decimal.Zero,
	}, nil
}

// Variant is an optional sub-definition of a component (color, capacity, ...).
// Variants share the component's serialization flag.
type Variant struct {
	shared.BaseEntity
	ComponentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code        string    `gorm:"type:varchar(50);not null"`
	Name        string    `gorm:"type:varchar(200);not null"`
}

// Warehouse is a physical stock location.
type Warehouse struct {
	shared.BaseEntity
	Code    string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(500)"`
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Warehouse name cannot be empty")
	}
	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
	}, nil
}
