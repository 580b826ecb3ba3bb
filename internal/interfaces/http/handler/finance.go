package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/tradeyard/backend/internal/application/finance"
)

// FinanceHandler handles reconciliation endpoints
type FinanceHandler struct {
	BaseHandler
	reconciliationService *financeapp.ReconciliationService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(reconciliationService *financeapp.ReconciliationService) *FinanceHandler {
	return &FinanceHandler{reconciliationService: reconciliationService}
}

// RegisterRoutes registers finance routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	finance := rg.Group("/reconciliation")
	{
		finance.GET("/drift", h.CheckDrift)
	}
}

// CheckDrift compares every partner's stored outstanding against the
// balance derived from invoice and ledger history
func (h *FinanceHandler) CheckDrift(c *gin.Context) {
	report, err := h.reconciliationService.CheckDrift(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
