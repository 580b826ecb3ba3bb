package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tradeyard/backend/internal/domain/audit"
)

// AuditHandler exposes recorded audit history
type AuditHandler struct {
	BaseHandler
	reader audit.Reader
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(reader audit.Reader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-logs", h.List)
}

// List lists audit records, newest first
func (h *AuditHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	records, total, err := h.reader.List(c.Request.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, page, pageSize)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
