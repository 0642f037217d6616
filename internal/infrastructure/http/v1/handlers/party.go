package handlers

import (
	"github.com/gin-gonic/gin"

	"bullionledger/internal/domain/catalogs/party"
)

// PartyBalanceHandler serves a party's gold and cash position.
type PartyBalanceHandler struct {
	*BaseHandler
	service *party.Service
}

// NewPartyBalanceHandler creates a new party balance handler.
func NewPartyBalanceHandler(base *BaseHandler, service *party.Service) *PartyBalanceHandler {
	return &PartyBalanceHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the balance route on rg.
func (h *PartyBalanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/balances", h.Balances)
}

// Balances handles GET /parties/:id/balances.
func (h *PartyBalanceHandler) Balances(c *gin.Context) {
	partyID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), partyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	cash := p.Cash
	if cash == nil {
		cash = []party.CashBalance{}
	}
	h.OK(c, gin.H{
		"partyId": p.ID,
		"gold":    p.Gold,
		"cash":    cash,
	})
}
