package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/documents/drafting"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/infrastructure/http/v1/dto"
)

// DraftingHandler serves the draft workflow.
type DraftingHandler struct {
	*BaseHandler
	service   *drafting.Service
	inventory *inventory.Service
}

// NewDraftingHandler creates a new drafting handler.
func NewDraftingHandler(base *BaseHandler, service *drafting.Service, inv *inventory.Service) *DraftingHandler {
	return &DraftingHandler{BaseHandler: base, service: service, inventory: inv}
}

// RegisterRoutes mounts the draft routes on rg.
func (h *DraftingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/confirm", h.transition(h.service.Confirm))
	rg.POST("/:id/reject", h.transition(h.service.Reject))
	rg.POST("/:id/revert", h.transition(h.service.Revert))
	rg.GET("/:id/entries", h.Entries)
}

// Create handles POST /drafts.
func (h *DraftingHandler) Create(c *gin.Context) {
	var req drafting.CreateInput
	if !h.BindJSON(c, &req) {
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, d)
}

// Get handles GET /drafts/:id.
func (h *DraftingHandler) Get(c *gin.Context) {
	draftID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	d, err := h.service.Get(c.Request.Context(), draftID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, d)
}

// List handles GET /drafts.
func (h *DraftingHandler) List(c *gin.Context) {
	filter := drafting.ListFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	partyID, ok := h.ParseOptionalID(c, "partyId")
	if !ok {
		return
	}
	filter.PartyID = partyID

	if raw := c.Query("status"); raw != "" {
		s := drafting.Status(raw)
		filter.Status = &s
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Page(c, result.Items, result.TotalCount, result.Limit, result.Offset)
}

// transition adapts a lifecycle step (confirm, reject, revert) to a handler.
func (h *DraftingHandler) transition(step func(ctx context.Context, draftID id.ID) (*drafting.Drafting, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		draftID, ok := h.ParseID(c, "id")
		if !ok {
			return
		}

		d, err := step(c.Request.Context(), draftID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, d)
	}
}

// Delete handles DELETE /drafts/:id.
func (h *DraftingHandler) Delete(c *gin.Context) {
	draftID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), draftID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Entries handles GET /drafts/:id/entries.
func (h *DraftingHandler) Entries(c *gin.Context) {
	ctx := c.Request.Context()

	draftID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.service.Entries(ctx, draftID)
	if err != nil {
		h.Error(c, err)
		return
	}
	logs, err := h.inventory.DraftLogs(ctx, draftID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewEntriesResponse(entries, logs))
}
