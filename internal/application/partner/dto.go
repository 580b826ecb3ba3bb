package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/partner"
)

// CreatePartnerRequest represents a request to create a buyer or supplier
type CreatePartnerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address"`
}

// UpdatePartnerRequest represents a request to update a buyer or supplier
type UpdatePartnerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address"`
}

// PartnerListFilter represents list filtering options
type PartnerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// BuyerResponse represents a buyer in responses
type BuyerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SupplierResponse represents a supplier in responses
type SupplierResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToBuyerResponse converts a domain buyer to a response DTO
func ToBuyerResponse(b *partner.Buyer) BuyerResponse {
	return BuyerResponse{
		ID:          b.ID,
		Name:        b.BuyerName,
		Phone:       b.Phone,
		Address:     b.Address,
		Outstanding: b.Outstanding,
		Version:     b.GetVersion(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToSupplierResponse converts a domain supplier to a response DTO
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.SupplierName,
		Phone:       s.Phone,
		Address:     s.Address,
		Outstanding: s.Outstanding,
		Version:     s.GetVersion(),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
