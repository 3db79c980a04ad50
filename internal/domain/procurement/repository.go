package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// ListQuery narrows order listings
type ListQuery struct {
	Status     *PurchaseOrderStatus
	SupplierID *uuid.UUID
	Filter     shared.Filter
}

// PurchaseOrderRepository persists purchase order aggregates
type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *PurchaseOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	// FindByIDForReceiving loads the aggregate with its lines under a
	// pessimistic row lock, serializing concurrent receipts against the
	// same order for the duration of the transaction.
	FindByIDForReceiving(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByCode(ctx context.Context, code string) (*PurchaseOrder, error)
	List(ctx context.Context, query ListQuery) (*shared.Paginated[*PurchaseOrder], error)
	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock writes the aggregate only if the stored version still
	// matches expectedVersion, returning CONCURRENT_MODIFICATION otherwise.
	SaveWithLock(ctx context.Context, order *PurchaseOrder, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextCode issues the next order code in the PO-YYYY-NNNNN sequence.
	NextCode(ctx context.Context) (string, error)
}

// HistoryRepository appends to and reads the order audit trail
type HistoryRepository interface {
	Append(ctx context.Context, entry *PurchaseOrderHistory) error
	// FindByOrder returns entries newest first.
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*PurchaseOrderHistory, error)
}
