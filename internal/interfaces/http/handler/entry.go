package handler

import (
	"github.com/gin-gonic/gin"
	entryapp "github.com/tradeyard/backend/internal/application/entry"
)

// EntryHandler handles entry intake and auctioning endpoints
type EntryHandler struct {
	BaseHandler
	entryService   *entryapp.Service
	auctionService *entryapp.AuctionService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *entryapp.Service, auctionService *entryapp.AuctionService) *EntryHandler {
	return &EntryHandler{
		entryService:   entryService,
		auctionService: auctionService,
	}
}

// RegisterRoutes registers entry routes
func (h *EntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/entries")
	{
		entries.POST("", h.Create)
		entries.GET("", h.List)
		entries.GET("/:id", h.Get)
		entries.PUT("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
		entries.PUT("/:id/items", h.SaveAuctionItem)
		entries.DELETE("/:id/items/:itemId", h.RemoveAuctionItem)
	}
}

// Create creates a supplier entry for a calendar day
func (h *EntryHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req entryapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.entryService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists entries
func (h *EntryHandler) List(c *gin.Context) {
	var filter entryapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.entryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// Get returns one entry with its items
func (h *EntryHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	resp, err := h.entryService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces an entry's items
func (h *EntryHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req entryapp.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.entryService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an entry that has no invoice links
func (h *EntryHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SaveAuctionItem saves one item during auctioning
func (h *EntryHandler) SaveAuctionItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req entryapp.SaveAuctionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.auctionService.SaveItem(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveAuctionItem removes one item during auctioning
func (h *EntryHandler) RemoveAuctionItem(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	entryID, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.auctionService.RemoveItem(c.Request.Context(), actor, entryID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
