package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	cashflowapp "github.com/tradeyard/backend/internal/application/cashflow"
)

// CashFlowHandler handles ledger transaction endpoints
type CashFlowHandler struct {
	BaseHandler
	cashFlowService *cashflowapp.Service
}

// NewCashFlowHandler creates a new CashFlowHandler
func NewCashFlowHandler(cashFlowService *cashflowapp.Service) *CashFlowHandler {
	return &CashFlowHandler{cashFlowService: cashFlowService}
}

// RegisterRoutes registers cash flow routes
func (h *CashFlowHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cashFlow := rg.Group("/cash-flow")
	{
		cashFlow.POST("", h.Create)
		cashFlow.GET("", h.List)
		cashFlow.GET("/opening-balance", h.OpeningBalance)
		cashFlow.GET("/:id", h.Get)
		cashFlow.PUT("/:id", h.Update)
		cashFlow.DELETE("/:id", h.Delete)
	}
}

// Create records a ledger transaction and applies its balance effects
func (h *CashFlowHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req cashflowapp.TransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.cashFlowService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists ledger transactions
func (h *CashFlowHandler) List(c *gin.Context) {
	var filter cashflowapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	items, total, err := h.cashFlowService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// OpeningBalance returns the derived cash and bank position at the start
// of the given day. Defaults to today when no date is supplied.
func (h *CashFlowHandler) OpeningBalance(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	resp, err := h.cashFlowService.GetOpeningBalance(c.Request.Context(), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns one ledger transaction
func (h *CashFlowHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	resp, err := h.cashFlowService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update revises a ledger transaction, reverting the old balance effects
// before applying the new ones
func (h *CashFlowHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req cashflowapp.TransactionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.cashFlowService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a ledger transaction and reverts its balance effects
func (h *CashFlowHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.cashFlowService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
