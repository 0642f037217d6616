package handlers

import (
	"github.com/gin-gonic/gin"

	"bullionledger/internal/domain/registers/inventory"
)

// InventoryHandler serves stock positions.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the inventory routes on rg.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/gold-balance", h.GoldBalance)
}

// List handles GET /inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	rows, err := h.service.Inventories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if rows == nil {
		rows = []inventory.Inventory{}
	}
	h.OK(c, gin.H{"items": rows})
}

// GoldBalance handles GET /inventory/gold-balance.
func (h *InventoryHandler) GoldBalance(c *gin.Context) {
	balance, err := h.service.GoldBalanceFromLogs(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	if balance.ByStock == nil {
		balance.ByStock = []inventory.StockGold{}
	}
	h.OK(c, balance)
}
