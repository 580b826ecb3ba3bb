package entry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/entry"
)

// EntryItemInput carries one item of an entry in create/update requests.
// The ID is present when the client is editing an existing item.
type EntryItemInput struct {
	ID              *uuid.UUID      `json:"id"`
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	ProductName     string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	WeightTracked   bool            `json:"weight_tracked"`
	GrossWeight     decimal.Decimal `json:"gross_weight"`
	ShuteWeight     decimal.Decimal `json:"shute_weight"`
	RatePerQuantity decimal.Decimal `json:"rate_per_quantity"`
	BuyerID         *uuid.UUID      `json:"buyer_id"`
}

// CreateEntryRequest represents a request to create an entry
type CreateEntryRequest struct {
	SupplierID uuid.UUID        `json:"supplier_id" binding:"required"`
	EntryDate  *time.Time       `json:"entry_date"`
	Items      []EntryItemInput `json:"items"`
}

// UpdateEntryRequest represents a request to replace an entry's items
type UpdateEntryRequest struct {
	Items []EntryItemInput `json:"items"`
}

// SaveAuctionItemRequest represents a per-item save during auctioning
type SaveAuctionItemRequest struct {
	ItemID          *uuid.UUID      `json:"item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	WeightTracked   bool            `json:"weight_tracked"`
	GrossWeight     decimal.Decimal `json:"gross_weight"`
	ShuteWeight     decimal.Decimal `json:"shute_weight"`
	RatePerQuantity decimal.Decimal `json:"rate_per_quantity"`
	BuyerID         *uuid.UUID      `json:"buyer_id" binding:"required"`
}

// EntryListFilter represents list filtering options
type EntryListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status"`
	Search     string     `form:"search"`
}

// EntryItemResponse represents an entry item in responses
type EntryItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	SubSerialNumber   int             `json:"sub_serial_number"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Quantity          decimal.Decimal `json:"quantity"`
	WeightTracked     bool            `json:"weight_tracked"`
	GrossWeight       decimal.Decimal `json:"gross_weight"`
	ShuteWeight       decimal.Decimal `json:"shute_weight"`
	NettWeight        decimal.Decimal `json:"nett_weight"`
	RatePerQuantity   decimal.Decimal `json:"rate_per_quantity"`
	BuyerID           *uuid.UUID      `json:"buyer_id,omitempty"`
	SubTotal          decimal.Decimal `json:"sub_total"`
	InvoiceID         *uuid.UUID      `json:"invoice_id,omitempty"`
	SupplierInvoiceID *uuid.UUID      `json:"supplier_invoice_id,omitempty"`
}

// EntryResponse represents an entry in responses
type EntryResponse struct {
	ID                  uuid.UUID           `json:"id"`
	SerialNumber        string              `json:"serial_number"`
	SupplierID          uuid.UUID           `json:"supplier_id"`
	EntryDate           time.Time           `json:"entry_date"`
	Status              string              `json:"status"`
	TotalQuantities     decimal.Decimal     `json:"total_quantities"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	LastSubSerialNumber int                 `json:"last_sub_serial_number"`
	Items               []EntryItemResponse `json:"items"`
	Version             int                 `json:"version"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ToEntryResponse converts a domain entry to a response DTO
func ToEntryResponse(e *entry.Entry) EntryResponse {
	items := make([]EntryItemResponse, len(e.Items))
	for i, item := range e.Items {
		items[i] = EntryItemResponse{
			ID:                item.ID,
			SubSerialNumber:   item.SubSerialNumber,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Quantity:          item.Quantity,
			WeightTracked:     item.WeightTracked,
			GrossWeight:       item.GrossWeight,
			ShuteWeight:       item.ShuteWeight,
			NettWeight:        item.NettWeight,
			RatePerQuantity:   item.RatePerQuantity,
			BuyerID:           item.BuyerID,
			SubTotal:          item.SubTotal,
			InvoiceID:         item.InvoiceID,
			SupplierInvoiceID: item.SupplierInvoiceID,
		}
	}
	return EntryResponse{
		ID:                  e.ID,
		SerialNumber:        e.SerialNumber,
		SupplierID:          e.SupplierID,
		EntryDate:           e.EntryDate,
		Status:              e.Status.String(),
		TotalQuantities:     e.TotalQuantities,
		TotalAmount:         e.TotalAmount,
		LastSubSerialNumber: e.LastSubSerialNumber,
		Items:               items,
		Version:             e.GetVersion(),
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func toDomainItems(entryID uuid.UUID, inputs []EntryItemInput) []entry.EntryItem {
	items := make([]entry.EntryItem, 0, len(inputs))
	now := time.Now()
	for _, in := range inputs {
		item := entry.EntryItem{
			ID:              uuid.New(),
			EntryID:         entryID,
			ProductID:       in.ProductID,
			ProductName:     in.ProductName,
			Quantity:        in.Quantity,
			WeightTracked:   in.WeightTracked,
			GrossWeight:     in.GrossWeight,
			ShuteWeight:     in.ShuteWeight,
			RatePerQuantity: in.RatePerQuantity,
			BuyerID:         in.BuyerID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if in.ID != nil {
			item.ID = *in.ID
		}
		item.Recalculate()
		items = append(items, item)
	}
	return items
}
