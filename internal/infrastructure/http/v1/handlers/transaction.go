package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/domain/documents/metal_transaction"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/infrastructure/http/v1/dto"
)

// TransactionHandler serves metal transaction vouchers.
type TransactionHandler struct {
	*BaseHandler
	service   *metal_transaction.Service
	inventory *inventory.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *metal_transaction.Service, inv *inventory.Service) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, service: service, inventory: inv}
}

// RegisterRoutes mounts the voucher routes on rg.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/entries", h.Entries)
}

// Create handles POST /transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req metal_transaction.CreateInput
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromTransaction(doc))
}

// Get handles GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	txID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransaction(doc))
}

// List handles GET /transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	filter := metal_transaction.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	partyID, ok := h.ParseOptionalID(c, "partyId")
	if !ok {
		return
	}
	filter.PartyID = partyID

	if raw := c.Query("type"); raw != "" {
		t := posting.TransactionType(raw)
		filter.Type = &t
	}

	if filter.DateFrom, ok = h.parseDate(c, "dateFrom"); !ok {
		return
	}
	if filter.DateTo, ok = h.parseDate(c, "dateTo"); !ok {
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, len(result.Items))
	for i, doc := range result.Items {
		items[i] = dto.FromTransaction(doc)
	}
	h.Page(c, items, result.TotalCount, result.Limit, result.Offset)
}

// Update handles PATCH /transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
	txID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var patch metal_transaction.Patch
	if !h.BindJSON(c, &patch) {
		return
	}

	doc, err := h.service.Update(c.Request.Context(), txID, patch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTransaction(doc))
}

// Delete handles DELETE /transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
	txID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), txID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Entries handles GET /transactions/:id/entries.
func (h *TransactionHandler) Entries(c *gin.Context) {
	ctx := c.Request.Context()

	txID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.Entries(ctx, txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	logs, err := h.inventory.Logs(ctx, txID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewEntriesResponse(entries, logs))
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func (h *BaseHandler) parseDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	h.Error(c, apperror.NewValidation("invalid date format").WithDetail("field", key))
	return nil, false
}
