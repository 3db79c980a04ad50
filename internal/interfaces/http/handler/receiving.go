package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/warehouse/backend/internal/application/receiving"
	"github.com/warehouse/backend/internal/interfaces/http/dto"
)

// ReceivingHandler serves the receiving endpoints of a purchase order
type ReceivingHandler struct {
	BaseHandler
	service *receiving.Service
}

// NewReceivingHandler creates a new ReceivingHandler
func NewReceivingHandler(service *receiving.Service) *ReceivingHandler {
	return &ReceivingHandler{service: service}
}

// Receive handles POST /api/v1/purchase-orders/:id/receive.
// An optional Idempotency-Key header makes retried batches safe: the same key
// returns the stored summary of the first execution.
func (h *ReceivingHandler) Receive(c *gin.Context) {
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

	var req dto.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	summary, err := h.service.Receive(c.Request.Context(), receiving.ReceiveCommand{
		OrderID:        orderID,
		ActorID:        actorID,
		Items:          req.ToItems(),
		ReceivedAt:     req.ReceivedDate,
		Note:           req.Note,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// GetReceivedItems handles GET /api/v1/purchase-orders/:id/received-items
func (h *ReceivingHandler) GetReceivedItems(c *gin.Context) {
	orderID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items, err := h.service.GetReceivedItems(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetHistory handles GET /api/v1/purchase-orders/:id/history
func (h *ReceivingHandler) GetHistory(c *gin.Context) {
	orderID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	entries, err := h.service.GetHistory(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
