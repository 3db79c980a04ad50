package handler

import (
	"github.com/gin-gonic/gin"

	appprocurement "github.com/warehouse/backend/internal/application/procurement"
)

// PurchaseOrderHandler serves purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	service *appprocurement.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(service *appprocurement.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// Create handles POST /api/v1/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	actorID, err := h.getActorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appprocurement.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Confirm handles POST /api/v1/purchase-orders/:id/confirm
func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	actorID, err := h.getActorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.service.Confirm(c.Request.Context(), orderID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles POST /api/v1/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	actorID, err := h.getActorID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appprocurement.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Cancel reason is required")
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), orderID, actorID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByID handles GET /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	orderID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /api/v1/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var req appprocurement.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Delete handles DELETE /api/v1/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	orderID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
