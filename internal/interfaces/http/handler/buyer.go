package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/tradeyard/backend/internal/application/partner"
)

// BuyerHandler handles buyer endpoints
type BuyerHandler struct {
	BaseHandler
	buyerService *partnerapp.BuyerService
}

// NewBuyerHandler creates a new BuyerHandler
func NewBuyerHandler(buyerService *partnerapp.BuyerService) *BuyerHandler {
	return &BuyerHandler{buyerService: buyerService}
}

// RegisterRoutes registers buyer routes
func (h *BuyerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	buyers := rg.Group("/buyers")
	{
		buyers.POST("", h.Create)
		buyers.GET("", h.List)
		buyers.GET("/:id", h.Get)
		buyers.PUT("/:id", h.Update)
		buyers.DELETE("/:id", h.Delete)
	}
}

// Create creates a buyer
func (h *BuyerHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req partnerapp.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.buyerService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists buyers
func (h *BuyerHandler) List(c *gin.Context) {
	var filter partnerapp.PartnerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.buyerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// Get returns one buyer
func (h *BuyerHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID")
		return
	}

	resp, err := h.buyerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a buyer's basic information
func (h *BuyerHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID")
		return
	}

	var req partnerapp.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.buyerService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a buyer with a settled balance
func (h *BuyerHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID")
		return
	}

	if err := h.buyerService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
