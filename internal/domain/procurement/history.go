package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/warehouse/backend/internal/domain/shared"
)

// HistoryAction names one kind of purchase order lifecycle event
type HistoryAction string

const (
	HistoryActionCreated         HistoryAction = "CREATED"
	HistoryActionConfirmed       HistoryAction = "CONFIRMED"
	HistoryActionCancelled       HistoryAction = "CANCELLED"
	HistoryActionPartialReceived HistoryAction = "PARTIAL_RECEIVED"
	HistoryActionFullyReceived   HistoryAction = "FULLY_RECEIVED"
)

// PurchaseOrderHistory is one append-only audit record of a lifecycle event.
// Records are written in the same transaction as the state change they
// describe and never updated afterwards.
type PurchaseOrderHistory struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Action          HistoryAction `gorm:"type:varchar(30);not null"`
	OldStatus       string        `gorm:"type:varchar(20)"`
	NewStatus       string        `gorm:"type:varchar(20);not null"`
	ActorID         uuid.UUID     `gorm:"type:uuid;not null"`
	Description     string        `gorm:"type:varchar(500)"`
	Metadata        string        `gorm:"type:jsonb"`
	OccurredAt      time.Time     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PurchaseOrderHistory) TableName() string {
	return "purchase_order_histories"
}

// NewHistory records one lifecycle event for an order
func NewHistory(orderID uuid.UUID, action HistoryAction, oldStatus, newStatus PurchaseOrderStatus, actorID uuid.UUID, description string, metadata string) (*PurchaseOrderHistory, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Order ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Actor ID cannot be empty")
	}

	return &PurchaseOrderHistory{
		BaseEntity:      shared.NewBaseEntity(),
		PurchaseOrderID: orderID,
		Action:          action,
		OldStatus:       oldStatus.String(),
		NewStatus:       newStatus.String(),
		ActorID:         actorID,
		Description:     description,
		Metadata:        metadata,
		OccurredAt:      time.Now(),
	}, nil
}
