package receiving

import (
	"context"

	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories the
// receiving flow touches. When a function is executed within a scope, all
// repository operations are part of the same database transaction and commit
// or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository a receiving
// batch writes, all sharing the same underlying transaction. One receiving
// batch spans three aggregates (the order, instances, stock counters) plus
// two append-only logs (ledger, history), so the unit of work is wider than
// a single aggregate boundary on purpose.
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() procurement.PurchaseOrderRepository
	// HistoryRepo returns the order audit trail repository scoped to the current transaction
	HistoryRepo() procurement.HistoryRepository
	// InstanceRepo returns the serialized unit repository scoped to the current transaction
	InstanceRepo() inventory.ProductInstanceRepository
	// StockRepo returns the bulk counter repository scoped to the current transaction
	StockRepo() inventory.WarehouseStockRepository
	// LedgerRepo returns the inventory ledger repository scoped to the current transaction
	LedgerRepo() inventory.TransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with mocked repositories.
type NoOpTransactionScope struct {
	orderRepo    procurement.PurchaseOrderRepository
	historyRepo  procurement.HistoryRepository
	instanceRepo inventory.ProductInstanceRepository
	stockRepo    inventory.WarehouseStockRepository
	ledgerRepo   inventory.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo procurement.PurchaseOrderRepository,
	historyRepo procurement.HistoryRepository,
	instanceRepo inventory.ProductInstanceRepository,
	stockRepo inventory.WarehouseStockRepository,
	ledgerRepo inventory.TransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		historyRepo:  historyRepo,
		instanceRepo: instanceRepo,
		stockRepo:    stockRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() procurement.PurchaseOrderRepository {
	return s.orderRepo
}

// HistoryRepo returns the order audit trail repository.
func (s *NoOpTransactionScope) HistoryRepo() procurement.HistoryRepository {
	return s.historyRepo
}

// InstanceRepo returns the serialized unit repository.
func (s *NoOpTransactionScope) InstanceRepo() inventory.ProductInstanceRepository {
	return s.instanceRepo
}

// StockRepo returns the bulk counter repository.
func (s *NoOpTransactionScope) StockRepo() inventory.WarehouseStockRepository {
	return s.stockRepo
}

// LedgerRepo returns the inventory ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() inventory.TransactionRepository {
	return s.ledgerRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
