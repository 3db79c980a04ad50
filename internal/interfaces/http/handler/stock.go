package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/warehouse/backend/internal/application/inventory"
)

// StockHandler serves read-only stock and instance lookups
type StockHandler struct {
	BaseHandler
	service *appinventory.QueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service *appinventory.QueryService) *StockHandler {
	return &StockHandler{service: service}
}

// ListStocks handles GET /api/v1/warehouses/:id/stocks
func (h *StockHandler) ListStocks(c *gin.Context) {
	warehouseID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := paginationParams(c)

	result, err := h.service.ListStocks(c.Request.Context(), warehouseID, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ListInstances handles GET /api/v1/warehouses/:id/instances
func (h *StockHandler) ListInstances(c *gin.Context) {
	warehouseID, err := h.parseIDParam(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := paginationParams(c)

	var componentID *uuid.UUID
	if raw := c.Query("component_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid component_id parameter")
			return
		}
		componentID = &id
	}
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}

	result, err := h.service.ListInstances(c.Request.Context(), warehouseID, componentID, status, page, pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetInstanceBySerial handles GET /api/v1/instances/:serial
func (h *StockHandler) GetInstanceBySerial(c *gin.Context) {
	instance, err := h.service.GetInstanceBySerial(c.Request.Context(), c.Param("serial"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, instance)
}

func paginationParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
