package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/tradeyard/backend/internal/application/billing"
)

// BuyerInvoiceHandler handles buyer invoice endpoints
type BuyerInvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.BuyerInvoiceService
}

// NewBuyerInvoiceHandler creates a new BuyerInvoiceHandler
func NewBuyerInvoiceHandler(invoiceService *billingapp.BuyerInvoiceService) *BuyerInvoiceHandler {
	return &BuyerInvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes registers buyer invoice routes
func (h *BuyerInvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Create)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.PUT("/:id", h.Update)
		invoices.DELETE("/:id", h.Delete)
	}
	rg.GET("/buyers/:id/uninvoiced-items", h.UninvoicedItems)
}

// UninvoicedItems lists a buyer's auctioned items not yet on any invoice
func (h *BuyerInvoiceHandler) UninvoicedItems(c *gin.Context) {
	buyerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid buyer ID")
		return
	}

	items, err := h.invoiceService.GetUninvoicedItems(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Create finalizes a buyer invoice over selected uninvoiced items
func (h *BuyerInvoiceHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req billingapp.CreateBuyerInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.invoiceService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists buyer invoices
func (h *BuyerInvoiceHandler) List(c *gin.Context) {
	var filter billingapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// Get returns one buyer invoice with its line items
func (h *BuyerInvoiceHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	resp, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update rebills a buyer invoice
func (h *BuyerInvoiceHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req billingapp.UpdateBuyerInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.invoiceService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete voids a buyer invoice and releases its items
func (h *BuyerInvoiceHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
