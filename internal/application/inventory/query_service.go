package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/application/receiving"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
)

// StockView is one bulk counter row in API responses
type StockView struct {
	WarehouseID      uuid.UUID  `json:"warehouse_id"`
	ComponentID      uuid.UUID  `json:"component_id"`
	VariantID        *uuid.UUID `json:"variant_id,omitempty"`
	QuantityOnHand   int        `json:"quantity_on_hand"`
	QuantityReserved int        `json:"quantity_reserved"`
	Available        int        `json:"available"`
	LocationCode     string     `json:"location_code,omitempty"`
	LastStockUpdate  time.Time  `json:"last_stock_update"`
}

// InstanceView is one serialized unit in API responses
type InstanceView struct {
	ID            uuid.UUID       `json:"id"`
	ComponentID   uuid.UUID       `json:"component_id"`
	WarehouseID   *uuid.UUID      `json:"warehouse_id,omitempty"`
	SerialNumber  string          `json:"serial_number"`
	IMEI1         *string         `json:"imei1,omitempty"`
	IMEI2         *string         `json:"imei2,omitempty"`
	Status        string          `json:"status"`
	ImportPrice   decimal.Decimal `json:"import_price"`
	ImportedAt    time.Time       `json:"imported_at"`
	WarrantyEnd   *time.Time      `json:"warranty_end,omitempty"`
	UnderWarranty bool            `json:"under_warranty"`
}

// QueryService serves read-only stock and instance lookups
type QueryService struct {
	scope receiving.TransactionScope
}

// NewQueryService creates a QueryService
func NewQueryService(scope receiving.TransactionScope) *QueryService {
	return &QueryService{scope: scope}
}

// ListStocks returns the bulk counters of a warehouse
func (s *QueryService) ListStocks(ctx context.Context, warehouseID uuid.UUID, page, pageSize int) (*shared.Paginated[StockView], error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var result *shared.Paginated[StockView]
	err := s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		stocks, total, err := repos.StockRepo().FindByWarehouse(ctx, warehouseID, (page-1)*pageSize, pageSize)
		if err != nil {
			return err
		}
		views := make([]StockView, 0, len(stocks))
		for _, st := range stocks {
			var variantID *uuid.UUID
			if st.VariantID != uuid.Nil {
				v := st.VariantID
				variantID = &v
			}
			views = append(views, StockView{
				WarehouseID:      st.WarehouseID,
				ComponentID:      st.ComponentID,
				VariantID:        variantID,
				QuantityOnHand:   st.QuantityOnHand,
				QuantityReserved: st.QuantityReserved,
				Available:        st.Available(),
				LocationCode:     st.LocationCode,
				LastStockUpdate:  st.LastStockUpdate,
			})
		}
		p := shared.NewPaginated(views, total, page, pageSize)
		result = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListInstances returns the serialized units of a warehouse
func (s *QueryService) ListInstances(ctx context.Context, warehouseID uuid.UUID, componentID *uuid.UUID, status *string, page, pageSize int) (*shared.Paginated[InstanceView], error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := inventory.ListFilter{
		ComponentID: componentID,
		Offset:      (page - 1) * pageSize,
		Limit:       pageSize,
	}
	if status != nil {
		st := inventory.InstanceStatus(*status)
		if !st.IsValid() {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid instance status %q", *status)
		}
		filter.Status = &st
	}

	var result *shared.Paginated[InstanceView]
	err := s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		instances, total, err := repos.InstanceRepo().FindByWarehouse(ctx, warehouseID, filter)
		if err != nil {
			return err
		}
		now := time.Now()
		views := make([]InstanceView, 0, len(instances))
		for _, inst := range instances {
			views = append(views, InstanceView{
				ID:            inst.ID,
				ComponentID:   inst.ComponentID,
				WarehouseID:   inst.WarehouseID,
				SerialNumber:  inst.SerialNumber,
				IMEI1:         inst.IMEI1,
				IMEI2:         inst.IMEI2,
				Status:        inst.Status.String(),
				ImportPrice:   inst.ImportPrice,
				ImportedAt:    inst.ImportedAt,
				WarrantyEnd:   inst.WarrantyEnd,
				UnderWarranty: inst.UnderWarranty(now),
			})
		}
		p := shared.NewPaginated(views, total, page, pageSize)
		result = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetInstanceBySerial looks a unit up by its serial number
func (s *QueryService) GetInstanceBySerial(ctx context.Context, serial string) (*InstanceView, error) {
	if serial == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Serial number is required")
	}

	var view *InstanceView
	err := s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		inst, err := repos.InstanceRepo().FindBySerialNumber(ctx, serial)
		if err != nil {
			return err
		}
		view = &InstanceView{
			ID:            inst.ID,
			ComponentID:   inst.ComponentID,
			WarehouseID:   inst.WarehouseID,
			SerialNumber:  inst.SerialNumber,
			IMEI1:         inst.IMEI1,
			IMEI2:         inst.IMEI2,
			Status:        inst.Status.String(),
			ImportPrice:   inst.ImportPrice,
			ImportedAt:    inst.ImportedAt,
			WarrantyEnd:   inst.WarrantyEnd,
			UnderWarranty: inst.UnderWarranty(time.Now()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
