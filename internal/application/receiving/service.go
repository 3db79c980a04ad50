package receiving

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/catalog"
	"github.com/warehouse/backend/internal/domain/inventory"
	"github.com/warehouse/backend/internal/domain/procurement"
	"github.com/warehouse/backend/internal/domain/shared"
)

// idempotencyTTL bounds how long a replayed key returns the stored summary
const idempotencyTTL = 24 * time.Hour

// Service executes receiving batches against purchase orders. Each batch is
// one atomic unit of work: order counters and status, serialized instances,
// bulk stock counters, ledger entries and the audit record all commit
// together or not at all.
type Service struct {
	scope         TransactionScope
	componentRepo catalog.ComponentRepository
	warehouseRepo catalog.WarehouseRepository
	idempotency   IdempotencyStore
}

// NewService creates a receiving service
func NewService(scope TransactionScope, componentRepo catalog.ComponentRepository, warehouseRepo catalog.WarehouseRepository) *Service {
	return &Service{
		scope:         scope,
		componentRepo: componentRepo,
		warehouseRepo: warehouseRepo,
	}
}

// SetIdempotencyStore enables idempotent replay of receiving batches
func (s *Service) SetIdempotencyStore(store IdempotencyStore) {
	s.idempotency = store
}

// Receive processes one receiving batch. On success the order's received
// counters have advanced, its status is derived (PARTIAL or DELIVERED),
// serialized units exist as instances, bulk quantities are added to the
// warehouse counters, and the ledger and audit trail carry matching entries.
// On any rejection nothing is written.
func (s *Service) Receive(ctx context.Context, cmd ReceiveCommand) (*ReceiveSummary, error) {
	if len(cmd.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeEmptyReceivingBatch, "Receiving batch cannot be empty")
	}
	if cmd.ActorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Actor ID is required")
	}

	if cmd.IdempotencyKey != "" && s.idempotency != nil {
		if payload, ok, err := s.idempotency.Get(ctx, cmd.IdempotencyKey); err == nil && ok {
			var summary ReceiveSummary
			if err := json.Unmarshal(payload, &summary); err == nil {
				return &summary, nil
			}
		}
	}

	var summary *ReceiveSummary
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForReceiving(ctx, cmd.OrderID)
		if err != nil {
			return err
		}
		if !order.Status.CanReceive() {
			return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot receive goods for order in %s status", order.Status)
		}

		plan, err := buildPlan(order, cmd.Items)
		if err != nil {
			return err
		}

		conflicts, err := repos.InstanceRepo().FindConflicts(ctx, plan.serials, plan.imeis)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return duplicateIdentityError(conflicts)
		}

		components, err := s.componentRepo.FindByIDs(ctx, componentIDs(order, plan))
		if err != nil {
			return err
		}

		now := time.Now()
		if cmd.ReceivedAt != nil {
			now = *cmd.ReceivedAt
		}

		oldStatus := order.Status
		expectedVersion := order.GetVersion()
		if err := order.ApplyReceipt(plan.quantities); err != nil {
			return err
		}
		if cmd.ReceivedAt != nil && order.Status == procurement.PurchaseOrderStatusDelivered {
			order.ActualDeliveryDate = &now
		}

		instances, serialsByDetail, err := buildInstances(order, plan, components, now)
		if err != nil {
			return err
		}
		if len(instances) > 0 {
			if err := repos.InstanceRepo().CreateBatch(ctx, instances); err != nil {
				return err
			}
		}

		for detailID, receipts := range plan.bulk {
			detail := order.GetDetail(detailID)
			total, location := 0, ""
			for _, r := range receipts {
				total += r.Quantity
				if r.LocationCode != "" {
					location = r.LocationCode
				}
			}
			variantID := uuid.Nil
			if detail.VariantID != nil {
				variantID = *detail.VariantID
			}
			if err := repos.StockRepo().IncrementOnHand(ctx, order.WarehouseID, detail.ComponentID, variantID, total, location); err != nil {
				return err
			}
		}

		entries, err := buildLedgerEntries(order, plan, instances, cmd.ActorID, cmd.Note, now)
		if err != nil {
			return err
		}
		if err := repos.LedgerRepo().AppendBatch(ctx, entries); err != nil {
			return err
		}

		receivedNow := 0
		for _, qty := range plan.quantities {
			receivedNow += qty
		}

		action := procurement.HistoryActionPartialReceived
		if order.Status == procurement.PurchaseOrderStatusDelivered {
			action = procurement.HistoryActionFullyReceived
		}
		metadata, _ := json.Marshal(map[string]any{
			"received_now": receivedNow,
			"serialized":   len(instances),
			"bulk":         receivedNow - len(instances),
			"lines":        len(plan.quantities),
		})
		entry, err := procurement.NewHistory(order.ID, action, oldStatus, order.Status, cmd.ActorID, cmd.Note, string(metadata))
		if err != nil {
			return err
		}
		if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			return err
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order, expectedVersion); err != nil {
			return err
		}

		warehouse, err := s.warehouseRepo.FindByID(ctx, order.WarehouseID)
		if err != nil {
			return err
		}

		summary = buildSummary(order, warehouse, plan, serialsByDetail, receivedNow, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cmd.IdempotencyKey != "" && s.idempotency != nil {
		if payload, err := json.Marshal(summary); err == nil {
			_ = s.idempotency.Set(ctx, cmd.IdempotencyKey, payload, idempotencyTTL)
		}
	}

	return summary, nil
}

// GetReceivedItems reports, per order line, what has been received so far.
// Quantities come from the inventory ledger rather than the cached counters,
// so the report doubles as a reconciliation check.
func (s *Service) GetReceivedItems(ctx context.Context, orderID uuid.UUID) ([]ReceivedItemView, error) {
	var views []ReceivedItemView
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		sums, err := repos.LedgerRepo().SumQuantityByReference(ctx, inventory.ReferenceTypePurchaseOrder, orderID)
		if err != nil {
			return err
		}

		instances, err := repos.InstanceRepo().FindByPurchaseOrder(ctx, orderID)
		if err != nil {
			return err
		}
		serialsByDetail := make(map[uuid.UUID][]string)
		for _, inst := range instances {
			serialsByDetail[inst.PurchaseOrderDetailID] = append(serialsByDetail[inst.PurchaseOrderDetailID], inst.SerialNumber)
		}

		views = make([]ReceivedItemView, 0, len(order.Details))
		for _, d := range order.Details {
			received := sums[d.ID]
			if received == 0 {
				continue
			}
			serials := serialsByDetail[d.ID]
			sort.Strings(serials)
			views = append(views, ReceivedItemView{
				DetailID:         d.ID,
				ComponentID:      d.ComponentID,
				ComponentName:    d.ComponentName,
				ComponentSKU:     d.ComponentSKU,
				IsSerialized:     d.IsSerialized,
				OrderedQuantity:  d.OrderedQuantity,
				ReceivedQuantity: received,
				Serials:          serials,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetHistory returns the audit trail of an order, newest first
func (s *Service) GetHistory(ctx context.Context, orderID uuid.UUID) ([]HistoryEntryView, error) {
	var views []HistoryEntryView
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OrderRepo().FindByID(ctx, orderID); err != nil {
			return err
		}
		entries, err := repos.HistoryRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		views = make([]HistoryEntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, HistoryEntryView{
				ID:          e.ID,
				Action:      string(e.Action),
				OldStatus:   e.OldStatus,
				NewStatus:   e.NewStatus,
				ActorID:     e.ActorID,
				Description: e.Description,
				Metadata:    e.Metadata,
				OccurredAt:  e.OccurredAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// buildPlan validates every batch item against its order line and groups the
// work per line. Validation errors carry the item position so callers can
// point at the offending entry.
func buildPlan(order *procurement.PurchaseOrder, items []procurement.ReceivingItem) (*receiptPlan, error) {
	plan := &receiptPlan{
		quantities: make(map[uuid.UUID]int),
		serialized: make(map[uuid.UUID][]procurement.SerializedReceipt),
		bulk:       make(map[uuid.UUID][]procurement.BulkReceipt),
	}
	seen := make(map[string]bool)

	for idx, item := range items {
		detail := order.GetDetail(item.DetailID)
		if detail == nil {
			return nil, itemError(idx, shared.NewDomainErrorf(shared.CodeDetailNotFound, "Order line %s not found", item.DetailID))
		}
		if err := item.Validate(detail.IsSerialized); err != nil {
			return nil, itemError(idx, err)
		}

		if item.Serialized != nil {
			r := *item.Serialized
			for _, v := range identityValues(r) {
				if seen[v] {
					return nil, itemError(idx, shared.NewDomainErrorf(shared.CodeDuplicateSerialOrImei, "Identity %q appears more than once in batch", v))
				}
				seen[v] = true
			}
			plan.serials = append(plan.serials, r.SerialNumber)
			if r.IMEI1 != nil && *r.IMEI1 != "" {
				plan.imeis = append(plan.imeis, *r.IMEI1)
			}
			if r.IMEI2 != nil && *r.IMEI2 != "" {
				plan.imeis = append(plan.imeis, *r.IMEI2)
			}
			plan.serialized[item.DetailID] = append(plan.serialized[item.DetailID], r)
		} else {
			plan.bulk[item.DetailID] = append(plan.bulk[item.DetailID], *item.Bulk)
		}
		plan.quantities[item.DetailID] += item.Quantity()
	}

	return plan, nil
}

func buildInstances(order *procurement.PurchaseOrder, plan *receiptPlan, components map[uuid.UUID]*catalog.Component, now time.Time) ([]*inventory.ProductInstance, map[uuid.UUID][]string, error) {
	var instances []*inventory.ProductInstance
	serialsByDetail := make(map[uuid.UUID][]string)

	for detailID, receipts := range plan.serialized {
		detail := order.GetDetail(detailID)
		defaultWarrantyMonths := 0
		if c, ok := components[detail.ComponentID]; ok {
			defaultWarrantyMonths = c.DefaultWarrantyMonths
		}

		for _, r := range receipts {
			instance, err := inventory.NewProductInstance(inventory.NewInstanceParams{
				ComponentID:           detail.ComponentID,
				VariantID:             detail.VariantID,
				WarehouseID:           order.WarehouseID,
				PurchaseOrderID:       order.ID,
				PurchaseOrderDetailID: detail.ID,
				SerialNumber:          r.SerialNumber,
				IMEI1:                 r.IMEI1,
				IMEI2:                 r.IMEI2,
				MAC:                   r.MAC,
				ImportPrice:           defaultPrice(r.ImportPrice, detail.UnitPrice),
				ImportedAt:            now,
				WarrantyMonths:        defaultWarranty(r.WarrantyMonths, defaultWarrantyMonths),
			})
			if err != nil {
				return nil, nil, err
			}
			instances = append(instances, instance)
			serialsByDetail[detailID] = append(serialsByDetail[detailID], r.SerialNumber)
		}
	}

	return instances, serialsByDetail, nil
}

func buildLedgerEntries(order *procurement.PurchaseOrder, plan *receiptPlan, instances []*inventory.ProductInstance, actorID uuid.UUID, note string, now time.Time) ([]*inventory.InventoryTransaction, error) {
	entries := make([]*inventory.InventoryTransaction, 0, len(instances)+len(plan.bulk))

	for _, inst := range instances {
		detailID := inst.PurchaseOrderDetailID
		instanceID := inst.ID
		entry, err := inventory.NewInventoryTransaction(inventory.NewTransactionParams{
			Type:              inventory.TransactionTypeImport,
			ReferenceType:     inventory.ReferenceTypePurchaseOrder,
			ReferenceID:       order.ID,
			ReferenceDetailID: &detailID,
			WarehouseID:       order.WarehouseID,
			ComponentID:       inst.ComponentID,
			VariantID:         inst.VariantID,
			InstanceID:        &instanceID,
			Quantity:          1,
			ActorID:           actorID,
			OccurredAt:        now,
			Note:              note,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	for detailID, receipts := range plan.bulk {
		detail := order.GetDetail(detailID)
		total := 0
		for _, r := range receipts {
			total += r.Quantity
		}
		id := detailID
		entry, err := inventory.NewInventoryTransaction(inventory.NewTransactionParams{
			Type:              inventory.TransactionTypeImport,
			ReferenceType:     inventory.ReferenceTypePurchaseOrder,
			ReferenceID:       order.ID,
			ReferenceDetailID: &id,
			WarehouseID:       order.WarehouseID,
			ComponentID:       detail.ComponentID,
			VariantID:         detail.VariantID,
			Quantity:          total,
			ActorID:           actorID,
			OccurredAt:        now,
			Note:              note,
		})
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func buildSummary(order *procurement.PurchaseOrder, warehouse *catalog.Warehouse, plan *receiptPlan, serialsByDetail map[uuid.UUID][]string, receivedNow int, now time.Time) *ReceiveSummary {
	lines := make([]LineSummary, 0, len(plan.quantities))
	for _, d := range order.Details {
		qty, ok := plan.quantities[d.ID]
		if !ok {
			continue
		}
		lines = append(lines, LineSummary{
			DetailID:         d.ID,
			ComponentID:      d.ComponentID,
			ComponentName:    d.ComponentName,
			ComponentSKU:     d.ComponentSKU,
			IsSerialized:     d.IsSerialized,
			ReceivedNow:      qty,
			ReceivedQuantity: d.ReceivedQuantity,
			OrderedQuantity:  d.OrderedQuantity,
			Serials:          serialsByDetail[d.ID],
		})
	}

	return &ReceiveSummary{
		OrderID:       order.ID,
		OrderCode:     order.Code,
		WarehouseID:   order.WarehouseID,
		WarehouseName: warehouse.Name,
		Status:        order.Status.String(),
		ReceivedNow:   receivedNow,
		TotalReceived: order.TotalReceivedQuantity(),
		TotalOrdered:  order.TotalOrderedQuantity(),
		Remaining:     order.TotalRemainingQuantity(),
		Lines:         lines,
		ReceivedAt:    now,
	}
}

func componentIDs(order *procurement.PurchaseOrder, plan *receiptPlan) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(plan.quantities))
	for detailID := range plan.serialized {
		d := order.GetDetail(detailID)
		if d != nil && !seen[d.ComponentID] {
			seen[d.ComponentID] = true
			ids = append(ids, d.ComponentID)
		}
	}
	return ids
}

func identityValues(r procurement.SerializedReceipt) []string {
	values := []string{r.SerialNumber}
	if r.IMEI1 != nil && *r.IMEI1 != "" {
		values = append(values, *r.IMEI1)
	}
	if r.IMEI2 != nil && *r.IMEI2 != "" {
		values = append(values, *r.IMEI2)
	}
	return values
}

// itemError keeps the domain error code while prefixing the batch position
func itemError(idx int, err error) error {
	var de *shared.DomainError
	code := shared.CodeInvalidInput
	msg := err.Error()
	if e, ok := err.(*shared.DomainError); ok {
		de = e
	}
	if de != nil {
		code = de.Code
		msg = de.Message
	}
	return shared.NewDomainError(code, fmt.Sprintf("item %d: %s", idx, msg))
}

func duplicateIdentityError(conflicts []inventory.IdentityConflict) error {
	values := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		values = append(values, c.Value)
	}
	sort.Strings(values)
	return shared.NewDomainErrorf(shared.CodeDuplicateSerialOrImei, "Identity already registered: %v", values)
}
