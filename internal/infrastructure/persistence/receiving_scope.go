package persistence

import (
	"context"

	"github.com/warehouse/backend/internal/application/receiving"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/procurement"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos receiving.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) OrderRepo() procurement.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// HistoryRepo returns the audit trail repository scoped to the current transaction.
func (r *gormTransactionalRepositories) HistoryRepo() procurement.HistoryRepository {
	return NewGormHistoryRepository(r.tx)
}

// InstanceRepo returns the serialized unit repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InstanceRepo() inventory.ProductInstanceRepository {
	return NewGormProductInstanceRepository(r.tx)
}

// StockRepo returns the bulk counter repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockRepo() inventory.WarehouseStockRepository {
	return NewGormWarehouseStockRepository(r.tx)
}

// LedgerRepo returns the inventory ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) LedgerRepo() inventory.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ receiving.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ receiving.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
