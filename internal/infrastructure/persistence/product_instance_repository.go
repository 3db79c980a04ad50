package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductInstanceRepository implements ProductInstanceRepository using GORM
type GormProductInstanceRepository struct {
	db *gorm.DB
}

// NewGormProductInstanceRepository creates a new GormProductInstanceRepository
func NewGormProductInstanceRepository(db *gorm.DB) *GormProductInstanceRepository {
	return &GormProductInstanceRepository{db: db}
}

// Create registers one serialized unit
func (r *GormProductInstanceRepository) Create(ctx context.Context, instance *inventory.ProductInstance) error {
	if err := r.db.WithContext(ctx).Create(instance).Error; err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// CreateBatch registers serialized units in one statement
func (r *GormProductInstanceRepository) CreateBatch(ctx context.Context, instances []*inventory.ProductInstance) error {
	if len(instances) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&instances).Error; err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// FindByID finds a serialized unit by its ID
func (r *GormProductInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductInstance, error) {
	var instance inventory.ProductInstance
	if err := r.db.WithContext(ctx).First(&instance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// FindBySerialNumber finds a serialized unit by its serial number
func (r *GormProductInstanceRepository) FindBySerialNumber(ctx context.Context, serial string) (*inventory.ProductInstance, error) {
	var instance inventory.ProductInstance
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&instance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// FindByPurchaseOrder returns all units registered against an order
func (r *GormProductInstanceRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]*inventory.ProductInstance, error) {
	var instances []*inventory.ProductInstance
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("serial_number ASC").
		Find(&instances).Error; err != nil {
		return nil, err
	}
	return instances, nil
}

// FindByWarehouse returns units currently in a warehouse, with the total count
func (r *GormProductInstanceRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter inventory.ListFilter) ([]*inventory.ProductInstance, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.ProductInstance{}).
		Where("warehouse_id = ?", warehouseID)

	if filter.ComponentID != nil {
		query = query.Where("component_id = ?", *filter.ComponentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var instances []*inventory.ProductInstance
	if err := query.
		Order("serial_number ASC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&instances).Error; err != nil {
		return nil, 0, err
	}
	return instances, total, nil
}

// FindConflicts returns the subset of the given identity values already
// registered. The database unique indexes remain the final arbiter under
// concurrency; this is the pre-flight check producing readable rejections.
func (r *GormProductInstanceRepository) FindConflicts(ctx context.Context, serials, imeis []string) ([]inventory.IdentityConflict, error) {
	var conflicts []inventory.IdentityConflict

	if len(serials) > 0 {
		var taken []string
		if err := r.db.WithContext(ctx).
			Model(&inventory.ProductInstance{}).
			Where("serial_number IN ?", serials).
			Pluck("serial_number", &taken).Error; err != nil {
			return nil, err
		}
		for _, v := range taken {
			conflicts = append(conflicts, inventory.IdentityConflict{Kind: inventory.ConflictSerialNumber, Value: v})
		}
	}

	if len(imeis) > 0 {
		var taken1 []string
		if err := r.db.WithContext(ctx).
			Model(&inventory.ProductInstance{}).
			Where("imei1 IN ?", imeis).
			Pluck("imei1", &taken1).Error; err != nil {
			return nil, err
		}
		for _, v := range taken1 {
			conflicts = append(conflicts, inventory.IdentityConflict{Kind: inventory.ConflictIMEI1, Value: v})
		}

		var taken2 []string
		if err := r.db.WithContext(ctx).
			Model(&inventory.ProductInstance{}).
			Where("imei2 IN ?", imeis).
			Pluck("imei2", &taken2).Error; err != nil {
			return nil, err
		}
		for _, v := range taken2 {
			conflicts = append(conflicts, inventory.IdentityConflict{Kind: inventory.ConflictIMEI2, Value: v})
		}
	}

	return conflicts, nil
}

// mapUniqueViolation translates database unique-index violations on identity
// columns into the domain duplicate code.
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed") {
		return shared.NewDomainError(shared.CodeDuplicateSerialOrImei,
			"Serial number or IMEI already registered")
	}
	return err
}

// Ensure GormProductInstanceRepository implements ProductInstanceRepository
var _ inventory.ProductInstanceRepository = (*GormProductInstanceRepository)(nil)
