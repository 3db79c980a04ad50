package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehouse/backend/internal/domain/procurement"
)

// CreateDetailRequest is one requested order line
type CreateDetailRequest struct {
	ComponentID uuid.UUID       `json:"component_id" binding:"required"`
	VariantID   *uuid.UUID      `json:"variant_id"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Note        string          `json:"note"`
}

// CreateOrderRequest creates a purchase order in PENDING status
type CreateOrderRequest struct {
	SupplierID   uuid.UUID             `json:"supplier_id" binding:"required"`
	SupplierName string                `json:"supplier_name" binding:"required"`
	WarehouseID  uuid.UUID             `json:"warehouse_id" binding:"required"`
	Details      []CreateDetailRequest `json:"details" binding:"required,min=1,dive"`
	Discount     *decimal.Decimal      `json:"discount"`
	Note         string                `json:"note"`
}

// CancelOrderRequest cancels an order with a mandatory reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListOrdersRequest filters the order listing
type ListOrdersRequest struct {
	Status     *string    `form:"status"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// DetailResponse is one order line in API responses
type DetailResponse struct {
	ID                uuid.UUID       `json:"id"`
	ComponentID       uuid.UUID       `json:"component_id"`
	VariantID         *uuid.UUID      `json:"variant_id,omitempty"`
	ComponentName     string          `json:"component_name"`
	ComponentSKU      string          `json:"component_sku"`
	IsSerialized      bool            `json:"is_serialized"`
	OrderedQuantity   int             `json:"ordered_quantity"`
	ReceivedQuantity  int             `json:"received_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
}

// OrderResponse is the full order representation
type OrderResponse struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	SupplierID         uuid.UUID        `json:"supplier_id"`
	SupplierName       string           `json:"supplier_name"`
	WarehouseID        uuid.UUID        `json:"warehouse_id"`
	Status             string           `json:"status"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	DiscountAmount     decimal.Decimal  `json:"discount_amount"`
	FinalAmount        decimal.Decimal  `json:"final_amount"`
	Details            []DetailResponse `json:"details"`
	ReceiveProgress    decimal.Decimal  `json:"receive_progress"`
	ConfirmedAt        *time.Time       `json:"confirmed_at,omitempty"`
	ActualDeliveryDate *time.Time       `json:"actual_delivery_date,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CancelReason       string           `json:"cancel_reason,omitempty"`
	Note               string           `json:"note,omitempty"`
	Version            int              `json:"version"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// OrderListItemResponse is the compact listing representation
type OrderListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	SupplierName string          `json:"supplier_name"`
	Status       string          `json:"status"`
	FinalAmount  decimal.Decimal `json:"final_amount"`
	LineCount    int             `json:"line_count"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToOrderResponse maps a domain order to its API representation
func ToOrderResponse(order *procurement.PurchaseOrder) OrderResponse {
	details := make([]DetailResponse, 0, len(order.Details))
	for _, d := range order.Details {
		details = append(details, DetailResponse{
			ID:                d.ID,
			ComponentID:       d.ComponentID,
			VariantID:         d.VariantID,
			ComponentName:     d.ComponentName,
			ComponentSKU:      d.ComponentSKU,
			IsSerialized:      d.IsSerialized,
			OrderedQuantity:   d.OrderedQuantity,
			ReceivedQuantity:  d.ReceivedQuantity,
			RemainingQuantity: d.RemainingQuantity(),
			UnitPrice:         d.UnitPrice,
			Amount:            d.Amount,
		})
	}

	return OrderResponse{
		ID:                 order.ID,
		Code:               order.Code,
		SupplierID:         order.SupplierID,
		SupplierName:       order.SupplierName,
		WarehouseID:        order.WarehouseID,
		Status:             order.Status.String(),
		TotalAmount:        order.TotalAmount,
		DiscountAmount:     order.DiscountAmount,
		FinalAmount:        order.FinalAmount,
		Details:            details,
		ReceiveProgress:    order.ReceiveProgress(),
		ConfirmedAt:        order.ConfirmedAt,
		ActualDeliveryDate: order.ActualDeliveryDate,
		CancelledAt:        order.CancelledAt,
		CancelReason:       order.CancelReason,
		Note:               order.Note,
		Version:            order.GetVersion(),
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}

// ToOrderListItemResponses maps domain orders to listing rows
func ToOrderListItemResponses(orders []*procurement.PurchaseOrder) []OrderListItemResponse {
	items := make([]OrderListItemResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, OrderListItemResponse{
			ID:           o.ID,
			Code:         o.Code,
			SupplierName: o.SupplierName,
			Status:       o.Status.String(),
			FinalAmount:  o.FinalAmount,
			LineCount:    len(o.Details),
			CreatedAt:    o.CreatedAt,
		})
	}
	return items
}
