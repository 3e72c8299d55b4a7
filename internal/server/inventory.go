package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	inventorydomain "github.com/smallbiznis/clinicdesk/internal/inventory/domain"
)

type createInventoryItemRequest struct {
	Name         string `json:"name" binding:"required"`
	SKU          string `json:"sku" binding:"required"`
	Unit         string `json:"unit"`
	Quantity     int64  `json:"quantity" binding:"min=0"`
	ReorderLevel int64  `json:"reorder_level" binding:"min=0"`
	UnitCost     int64  `json:"unit_cost" binding:"min=0"`
}

type updateInventoryItemRequest struct {
	Name         *string `json:"name"`
	Unit         *string `json:"unit"`
	ReorderLevel *int64  `json:"reorder_level" binding:"omitempty,min=0"`
	UnitCost     *int64  `json:"unit_cost" binding:"omitempty,min=0"`
}

type adjustInventoryRequest struct {
	Kind     string `json:"kind" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

func (s *Server) CreateInventoryItem(c *gin.Context) {
	var req createInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	item, err := s.inventorySvc.CreateItem(c.Request.Context(), inventorydomain.CreateItemRequest{
		Name:         req.Name,
		SKU:          req.SKU,
		Unit:         req.Unit,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     req.UnitCost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "inventory_item.create", authorization.ObjectInventory, item.ID.String(), map[string]any{
		"sku":      item.SKU,
		"quantity": item.Quantity,
	})
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (s *Server) ListInventoryItems(c *gin.Context) {
	lowStock, err := parseOptionalBool(c.Query("low_stock"))
	if err != nil {
		AbortWithError(c, newValidationError("low_stock", "invalid_low_stock", "invalid low_stock"))
		return
	}

	req := inventorydomain.ListItemRequest{Search: strings.TrimSpace(c.Query("search"))}
	if lowStock != nil {
		req.LowStock = *lowStock
	}
	items, err := s.inventorySvc.ListItems(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetInventoryItem(c *gin.Context) {
	item, err := s.inventorySvc.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) UpdateInventoryItem(c *gin.Context) {
	var req updateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	item, err := s.inventorySvc.UpdateItem(c.Request.Context(), c.Param("id"), inventorydomain.UpdateItemRequest{
		Name:         req.Name,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		UnitCost:     req.UnitCost,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "inventory_item.update", authorization.ObjectInventory, item.ID.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) AdjustInventoryItem(c *gin.Context) {
	var req adjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	id := c.Param("id")
	adj, err := s.inventorySvc.Adjust(c.Request.Context(), id, inventorydomain.AdjustRequest{
		Kind:     req.Kind,
		Quantity: req.Quantity,
		Reason:   req.Reason,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "inventory_item.adjust", authorization.ObjectInventory, id, map[string]any{
		"kind":     req.Kind,
		"quantity": req.Quantity,
	})
	c.JSON(http.StatusCreated, gin.H{"data": adj})
}

func (s *Server) ListInventoryAdjustments(c *gin.Context) {
	items, err := s.inventorySvc.ListAdjustments(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
