package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormComponentRepository implements ComponentRepository using GORM
type GormComponentRepository struct {
	db *gorm.DB
}

// NewGormComponentRepository creates a new GormComponentRepository
func NewGormComponentRepository(db *gorm.DB) *GormComponentRepository {
	return &GormComponentRepository{db: db}
}

// FindByID finds a component by its ID
func (r *GormComponentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).First(&component, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindByIDs returns the components with the given IDs, keyed by ID.
// Missing IDs are simply absent from the map.
func (r *GormComponentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Component, error) {
	result := make(map[uuid.UUID]*catalog.Component, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var components []*catalog.Component
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&components).Error; err != nil {
		return nil, err
	}
	for _, c := range components {
		result[c.ID] = c
	}
	return result, nil
}

// FindBySKU finds a component by its SKU
func (r *GormComponentRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by its ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Warehouse, error) {
	var warehouse catalog.Warehouse
	if err := r.db.WithContext(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

// Exists reports whether a warehouse with the given ID exists
func (r *GormWarehouseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Warehouse{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure the catalog repositories implement their interfaces
var _ catalog.ComponentRepository = (*GormComponentRepository)(nil)
var _ catalog.WarehouseRepository = (*GormWarehouseRepository)(nil)
