package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/application/receiving"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/procurement"
	"github.com/warehouse/backend/internal/domain/shared"
)

// PurchaseOrderService handles purchase order lifecycle operations outside of
// receiving: creation, confirmation, cancellation and queries. State changes
// write their audit record in the same transaction as the order itself.
type PurchaseOrderService struct {
	scope         receiving.TransactionScope
	componentRepo catalog.ComponentRepository
	warehouseRepo catalog.WarehouseRepository
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(scope receiving.TransactionScope, componentRepo catalog.ComponentRepository, warehouseRepo catalog.WarehouseRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:         scope,
		componentRepo: componentRepo,
		warehouseRepo: warehouseRepo,
	}
}

// Create creates a new purchase order in PENDING status
func (s *PurchaseOrderService) Create(ctx context.Context, actorID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Actor ID is required")
	}

	exists, err := s.warehouseRepo.Exists(ctx, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Warehouse not found")
	}

	componentIDs := make([]uuid.UUID, 0, len(req.Details))
	for _, d := range req.Details {
		componentIDs = append(componentIDs, d.ComponentID)
	}
	components, err := s.componentRepo.FindByIDs(ctx, componentIDs)
	if err != nil {
		return nil, err
	}

	var response *OrderResponse
	err = s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		code, err := repos.OrderRepo().NextCode(ctx)
		if err != nil {
			return err
		}

		order, err := procurement.NewPurchaseOrder(code, req.SupplierID, req.SupplierName, req.WarehouseID, actorID)
		if err != nil {
			return err
		}
		order.Note = req.Note

		for _, d := range req.Details {
			component, ok := components[d.ComponentID]
			if !ok {
				return shared.NewDomainErrorf(shared.CodeNotFound, "Component %s not found", d.ComponentID)
			}
			price := d.UnitPrice
			if price.IsZero() {
				price = component.ListPrice
			}
			if _, err := order.AddDetail(component.ID, d.VariantID, component.Name, component.SKU, component.IsSerialized, d.Quantity, price); err != nil {
				return err
			}
		}

		if req.Discount != nil {
			if err := order.ApplyDiscount(*req.Discount); err != nil {
				return err
			}
		}

		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}

		entry, err := procurement.NewHistory(order.ID, procurement.HistoryActionCreated,
			"", order.Status, actorID, "Order created", "")
		if err != nil {
			return err
		}
		if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			return err
		}

		r := ToOrderResponse(order)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Confirm transitions an order from PENDING to CONFIRMED
func (s *PurchaseOrderService) Confirm(ctx context.Context, orderID, actorID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, orderID, actorID, func(order *procurement.PurchaseOrder) (procurement.HistoryAction, string, error) {
		if err := order.Confirm(); err != nil {
			return "", "", err
		}
		return procurement.HistoryActionConfirmed, "Order confirmed", nil
	})
}

// Cancel moves an order to the CANCELLED terminal state. Stock received
// before cancellation stays in inventory.
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID, reason string) (*OrderResponse, error) {
	return s.transition(ctx, orderID, actorID, func(order *procurement.PurchaseOrder) (procurement.HistoryAction, string, error) {
		if err := order.Cancel(reason); err != nil {
			return "", "", err
		}
		return procurement.HistoryActionCancelled, "Order cancelled: " + reason, nil
	})
}

// transition loads the order under lock, applies fn, and persists the order
// together with its audit record.
func (s *PurchaseOrderService) transition(ctx context.Context, orderID, actorID uuid.UUID, fn func(*procurement.PurchaseOrder) (procurement.HistoryAction, string, error)) (*OrderResponse, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Actor ID is required")
	}

	var response *OrderResponse
	err := s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForReceiving(ctx, orderID)
		if err != nil {
			return err
		}

		oldStatus := order.Status
		expectedVersion := order.GetVersion()
		action, description, err := fn(order)
		if err != nil {
			return err
		}

		entry, err := procurement.NewHistory(order.ID, action, oldStatus, order.Status, actorID, description, "")
		if err != nil {
			return err
		}
		if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			return err
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order, expectedVersion); err != nil {
			return err
		}

		r := ToOrderResponse(order)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var response *OrderResponse
	err := s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		r := ToOrderResponse(order)
		response = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, req ListOrdersRequest) (*shared.Paginated[OrderListItemResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	query := procurement.ListQuery{
		SupplierID: req.SupplierID,
		Filter:     filter,
	}
	if req.Status != nil {
		status := procurement.PurchaseOrderStatus(*req.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "Invalid order status %q", *req.Status)
		}
		query.Status = &status
	}

	var page *shared.Paginated[OrderListItemResponse]
	err := s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		result, err := repos.OrderRepo().List(ctx, query)
		if err != nil {
			return err
		}
		p := shared.NewPaginated(ToOrderListItemResponses(result.Items), result.Total, result.Page, result.PageSize)
		page = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Delete soft-deletes an order. Only PENDING orders can be deleted; anything
// later in the lifecycle is part of the audit record.
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos receiving.TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsPending() {
			return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot delete order in %s status", order.Status)
		}
		return repos.OrderRepo().Delete(ctx, orderID)
	})
}
