package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/billing"
)

// ==================== Buyer Invoice DTOs ====================

// BuyerInvoiceItemInput names one auctioned entry item to consume
type BuyerInvoiceItemInput struct {
	EntryID     uuid.UUID `json:"entry_id" binding:"required"`
	EntryItemID uuid.UUID `json:"entry_item_id" binding:"required"`
}

// PaymentInput is an initial payment supplied at invoice creation
type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Discount  decimal.Decimal `json:"discount"`
	Method    string          `json:"method" binding:"required,oneof=Cash Bank"`
	Reference string          `json:"reference"`
}

// CreateBuyerInvoiceRequest represents a request to create a buyer invoice
type CreateBuyerInvoiceRequest struct {
	BuyerID     uuid.UUID               `json:"buyer_id" binding:"required"`
	Items       []BuyerInvoiceItemInput `json:"items" binding:"required,min=1"`
	Wages       decimal.Decimal         `json:"wages"`
	Adjustments decimal.Decimal         `json:"adjustments"`
	Discount    decimal.Decimal         `json:"discount"`
	CreatedAt   *time.Time              `json:"created_at"`
	Payments    []PaymentInput          `json:"payments"`
}

// UpdateBuyerInvoiceRequest represents a request to rebill a buyer invoice
type UpdateBuyerInvoiceRequest struct {
	BuyerID     uuid.UUID               `json:"buyer_id" binding:"required"`
	Items       []BuyerInvoiceItemInput `json:"items" binding:"required,min=1"`
	Wages       decimal.Decimal         `json:"wages"`
	Adjustments decimal.Decimal         `json:"adjustments"`
	Discount    decimal.Decimal         `json:"discount"`
}

// BuyerInvoiceItemResponse is a frozen item snapshot in responses
type BuyerInvoiceItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	EntryID           uuid.UUID       `json:"entry_id"`
	EntryItemID       uuid.UUID       `json:"entry_item_id"`
	EntrySerialNumber string          `json:"entry_serial_number"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	NettWeight        decimal.Decimal `json:"nett_weight"`
	RatePerQuantity   decimal.Decimal `json:"rate_per_quantity"`
	SubTotal          decimal.Decimal `json:"sub_total"`
}

// BuyerInvoiceResponse represents a buyer invoice in responses
type BuyerInvoiceResponse struct {
	ID            uuid.UUID                  `json:"id"`
	InvoiceNumber string                     `json:"invoice_number"`
	BuyerID       uuid.UUID                  `json:"buyer_id"`
	Items         []BuyerInvoiceItemResponse `json:"items"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	Wages         decimal.Decimal            `json:"wages"`
	Adjustments   decimal.Decimal            `json:"adjustments"`
	Discount      decimal.Decimal            `json:"discount"`
	NettAmount    decimal.Decimal            `json:"nett_amount"`
	PaidAmount    decimal.Decimal            `json:"paid_amount"`
	Version       int                        `json:"version"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
}

// ToBuyerInvoiceResponse converts a domain buyer invoice to a response DTO
func ToBuyerInvoiceResponse(inv *billing.BuyerInvoice) BuyerInvoiceResponse {
	items := make([]BuyerInvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = BuyerInvoiceItemResponse{
			ID:                item.ID,
			EntryID:           item.EntryID,
			EntryItemID:       item.EntryItemID,
			EntrySerialNumber: item.EntrySerialNumber,
			SupplierID:        item.SupplierID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Quantity:          item.Quantity,
			NettWeight:        item.NettWeight,
			RatePerQuantity:   item.RatePerQuantity,
			SubTotal:          item.SubTotal,
		}
	}
	return BuyerInvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		BuyerID:       inv.BuyerID,
		Items:         items,
		TotalAmount:   inv.TotalAmount,
		Wages:         inv.Wages,
		Adjustments:   inv.Adjustments,
		Discount:      inv.Discount,
		NettAmount:    inv.NettAmount,
		PaidAmount:    inv.PaidAmount,
		Version:       inv.GetVersion(),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

// UninvoicedItemResponse is an auctioned entry item awaiting invoicing,
// annotated with its parent entry
type UninvoicedItemResponse struct {
	EntryID           uuid.UUID       `json:"entry_id"`
	EntrySerialNumber string          `json:"entry_serial_number"`
	SupplierID        uuid.UUID       `json:"supplier_id"`
	ItemID            uuid.UUID       `json:"item_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	NettWeight        decimal.Decimal `json:"nett_weight"`
	RatePerQuantity   decimal.Decimal `json:"rate_per_quantity"`
	SubTotal          decimal.Decimal `json:"sub_total"`
}

// ==================== Supplier Invoice DTOs ====================

// SupplierInvoiceItemInput is one settled line of a supplier invoice
type SupplierInvoiceItemInput struct {
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	NettWeight      decimal.Decimal `json:"nett_weight"`
	RatePerQuantity decimal.Decimal `json:"rate_per_quantity" binding:"required"`
	SubTotal        decimal.Decimal `json:"sub_total" binding:"required"`
}

// CreateSupplierInvoiceRequest represents a request to create a supplier invoice
type CreateSupplierInvoiceRequest struct {
	SupplierID     uuid.UUID                  `json:"supplier_id" binding:"required"`
	EntryIDs       []uuid.UUID                `json:"entry_ids" binding:"required,min=1"`
	Items          []SupplierInvoiceItemInput `json:"items" binding:"required,min=1"`
	CommissionRate decimal.Decimal            `json:"commission_rate"`
	Wages          decimal.Decimal            `json:"wages"`
	Adjustments    decimal.Decimal            `json:"adjustments"`
	AdvancePaid    decimal.Decimal            `json:"advance_paid"`
}

// UpdateSupplierInvoiceRequest represents a request to resettle a supplier invoice
type UpdateSupplierInvoiceRequest struct {
	SupplierID     uuid.UUID                  `json:"supplier_id" binding:"required"`
	EntryIDs       []uuid.UUID                `json:"entry_ids" binding:"required,min=1"`
	Items          []SupplierInvoiceItemInput `json:"items" binding:"required,min=1"`
	CommissionRate decimal.Decimal            `json:"commission_rate"`
	Wages          decimal.Decimal            `json:"wages"`
	Adjustments    decimal.Decimal            `json:"adjustments"`
	AdvancePaid    decimal.Decimal            `json:"advance_paid"`
}

// SupplierInvoiceItemResponse is a settled line in responses
type SupplierInvoiceItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	NettWeight      decimal.Decimal `json:"nett_weight"`
	RatePerQuantity decimal.Decimal `json:"rate_per_quantity"`
	SubTotal        decimal.Decimal `json:"sub_total"`
}

// SupplierInvoiceResponse represents a supplier invoice in responses
type SupplierInvoiceResponse struct {
	ID               uuid.UUID                     `json:"id"`
	InvoiceNumber    string                        `json:"invoice_number"`
	SupplierID       uuid.UUID                     `json:"supplier_id"`
	EntryIDs         []uuid.UUID                   `json:"entry_ids"`
	Items            []SupplierInvoiceItemResponse `json:"items"`
	GrossTotal       decimal.Decimal               `json:"gross_total"`
	CommissionRate   decimal.Decimal               `json:"commission_rate"`
	CommissionAmount decimal.Decimal               `json:"commission_amount"`
	Wages            decimal.Decimal               `json:"wages"`
	Adjustments      decimal.Decimal               `json:"adjustments"`
	NettAmount       decimal.Decimal               `json:"nett_amount"`
	AdvancePaid      decimal.Decimal               `json:"advance_paid"`
	FinalPayable     decimal.Decimal               `json:"final_payable"`
	PaidAmount       decimal.Decimal               `json:"paid_amount"`
	Status           string                        `json:"status"`
	Version          int                           `json:"version"`
	CreatedAt        time.Time                     `json:"created_at"`
	UpdatedAt        time.Time                     `json:"updated_at"`
}

// ToSupplierInvoiceResponse converts a domain supplier invoice to a response DTO
func ToSupplierInvoiceResponse(inv *billing.SupplierInvoice) SupplierInvoiceResponse {
	items := make([]SupplierInvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = SupplierInvoiceItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			NettWeight:      item.NettWeight,
			RatePerQuantity: item.RatePerQuantity,
			SubTotal:        item.SubTotal,
		}
	}
	return SupplierInvoiceResponse{
		ID:               inv.ID,
		InvoiceNumber:    inv.InvoiceNumber,
		SupplierID:       inv.SupplierID,
		EntryIDs:         inv.EntryIDs(),
		Items:            items,
		GrossTotal:       inv.GrossTotal,
		CommissionRate:   inv.CommissionRate,
		CommissionAmount: inv.CommissionAmount,
		Wages:            inv.Wages,
		Adjustments:      inv.Adjustments,
		NettAmount:       inv.NettAmount,
		AdvancePaid:      inv.AdvancePaid,
		FinalPayable:     inv.FinalPayable,
		PaidAmount:       inv.PaidAmount,
		Status:           string(inv.Status),
		Version:          inv.GetVersion(),
		CreatedAt:        inv.CreatedAt,
		UpdatedAt:        inv.UpdatedAt,
	}
}

// InvoiceListFilter represents list filtering options for both invoice kinds
type InvoiceListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	BuyerID    *uuid.UUID `form:"buyer_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Search     string     `form:"search"`
}
