package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/procurement"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// Create inserts a new purchase order together with its lines
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID finds a purchase order by its ID
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Details").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForReceiving loads the order with its lines under a pessimistic row
// lock. Concurrent receipts against the same order serialize on this lock for
// the duration of the surrounding transaction.
func (r *GormPurchaseOrderRepository) FindByIDForReceiving(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	query := r.db.WithContext(ctx)
	// SQLite has no FOR UPDATE; its single-writer transaction lock already
	// serializes receipts.
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var order procurement.PurchaseOrder
	if err := query.
		Preload("Details").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByCode finds a purchase order by its order code
func (r *GormPurchaseOrderRepository) FindByCode(ctx context.Context, code string) (*procurement.PurchaseOrder, error) {
	var order procurement.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Details").
		Where("code = ?", code).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns purchase orders matching the query, paginated
func (r *GormPurchaseOrderRepository) List(ctx context.Context, query procurement.ListQuery) (*shared.Paginated[*procurement.PurchaseOrder], error) {
	base := r.db.WithContext(ctx).Model(&procurement.PurchaseOrder{})

	if query.Status != nil {
		base = base.Where("status = ?", *query.Status)
	}
	if query.SupplierID != nil {
		base = base.Where("supplier_id = ?", *query.SupplierID)
	}
	if query.Filter.Search != "" {
		pattern := "%" + query.Filter.Search + "%"
		base = base.Where("code ILIKE ? OR supplier_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page := query.Filter.Page
	pageSize := query.Filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	sortField := ValidateSortField(query.Filter.OrderBy, PurchaseOrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(query.Filter.OrderDir)

	var orders []*procurement.PurchaseOrder
	if err := base.
		Preload("Details").
		Order(sortField + " " + sortOrder).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, page, pageSize)
	return &result, nil
}

// Save updates an order and reconciles its lines without a version check.
// Used for line edits on PENDING orders where no stock is at stake.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *procurement.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Details").Save(order).Error; err != nil {
			return err
		}
		return r.saveDetails(tx, order)
	})
}

// SaveWithLock writes the aggregate only if the stored version still matches
// expectedVersion. The aggregate carries its already-incremented version;
// anything else in the row means another transaction won the race.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ?", order.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		if currentVersion == 0 {
			return shared.ErrNotFound
		}
		if currentVersion != expectedVersion {
			return shared.NewDomainError(shared.CodeConcurrentModification,
				"The order has been modified by another user")
		}

		result := tx.Model(&procurement.PurchaseOrder{}).
			Where("id = ? AND version = ?", order.ID, expectedVersion).
			Updates(map[string]interface{}{
				"supplier_id":          order.SupplierID,
				"supplier_name":        order.SupplierName,
				"warehouse_id":         order.WarehouseID,
				"total_amount":         order.TotalAmount,
				"discount_amount":      order.DiscountAmount,
				"final_amount":         order.FinalAmount,
				"status":               order.Status,
				"expected_delivery":    order.ExpectedDelivery,
				"actual_delivery_date": order.ActualDeliveryDate,
				"confirmed_at":         order.ConfirmedAt,
				"cancelled_at":         order.CancelledAt,
				"cancel_reason":        order.CancelReason,
				"note":                 order.Note,
				"version":              order.Version,
				"updated_at":           order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeConcurrentModification,
				"The order has been modified by another user")
		}

		return r.saveDetails(tx, order)
	})
}

// Delete soft-deletes a purchase order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_order_id = ?", id).
			Delete(&procurement.PurchaseOrderDetail{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&procurement.PurchaseOrder{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextCode issues the next order code in the PO-YYYY-NNNNN sequence
func (r *GormPurchaseOrderRepository) NextCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var lastCode string
	err := r.db.WithContext(ctx).
		Model(&procurement.PurchaseOrder{}).
		Where("code LIKE ?", prefix+"%").
		Order("code DESC").
		Limit(1).
		Pluck("code", &lastCode).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if lastCode != "" {
		parts := strings.Split(lastCode, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	code := fmt.Sprintf("%s%05d", prefix, nextNum)

	// The unique index on code is the final arbiter; retry past any codes
	// taken by a concurrent writer since our read.
	for i := 0; i < 100; i++ {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&procurement.PurchaseOrder{}).
			Where("code = ?", code).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			break
		}
		nextNum++
		code = fmt.Sprintf("%s%05d", prefix, nextNum)
	}

	return code, nil
}

// saveDetails reconciles the order's lines: removed lines are deleted,
// remaining ones inserted or updated.
func (r *GormPurchaseOrderRepository) saveDetails(tx *gorm.DB, order *procurement.PurchaseOrder) error {
	currentIDs := make([]uuid.UUID, len(order.Details))
	for i, d := range order.Details {
		currentIDs[i] = d.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("purchase_order_id = ? AND id NOT IN ?", order.ID, currentIDs).
			Delete(&procurement.PurchaseOrderDetail{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("purchase_order_id = ?", order.ID).
			Delete(&procurement.PurchaseOrderDetail{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Details {
		order.Details[i].PurchaseOrderID = order.ID
		if err := tx.Save(&order.Details[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
