package cashflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradeyard/backend/internal/domain/cashflow"
)

// TransactionInput carries the fields of a ledger transaction for both
// create and update requests
type TransactionInput struct {
	Date              *time.Time      `json:"date"`
	Type              string          `json:"type" binding:"required,oneof=Income Expense Transfer"`
	Category          string          `json:"category"`
	EntityID          *uuid.UUID      `json:"entity_id"`
	EntityName        string          `json:"entity_name"`
	Amount            decimal.Decimal `json:"amount" binding:"required"`
	Discount          decimal.Decimal `json:"discount"`
	Method            string          `json:"method" binding:"required,oneof=Cash Bank"`
	ToMethod          string          `json:"to_method"`
	Reference         string          `json:"reference"`
	Description       string          `json:"description"`
	RelatedEntryIDs   []uuid.UUID     `json:"related_entry_ids"`
	RelatedInvoiceIDs []uuid.UUID     `json:"related_invoice_ids"`
}

// TransactionListFilter represents list filtering options
type TransactionListFilter struct {
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	Type     string     `form:"type"`
	EntityID *uuid.UUID `form:"entity_id"`
	Search   string     `form:"search"`
}

// TransactionResponse represents a ledger transaction in responses
type TransactionResponse struct {
	ID                uuid.UUID       `json:"id"`
	Date              time.Time       `json:"date"`
	Type              string          `json:"type"`
	Category          string          `json:"category,omitempty"`
	EntityID          *uuid.UUID      `json:"entity_id,omitempty"`
	EntityName        string          `json:"entity_name,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Discount          decimal.Decimal `json:"discount"`
	Method            string          `json:"method"`
	ToMethod          string          `json:"to_method,omitempty"`
	Reference         string          `json:"reference,omitempty"`
	Description       string          `json:"description,omitempty"`
	RelatedEntryIDs   []uuid.UUID     `json:"related_entry_ids,omitempty"`
	RelatedInvoiceIDs []uuid.UUID     `json:"related_invoice_ids,omitempty"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(txn *cashflow.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                txn.ID,
		Date:              txn.Date,
		Type:              string(txn.Type),
		Category:          txn.Category,
		EntityID:          txn.EntityID,
		EntityName:        txn.EntityName,
		Amount:            txn.Amount,
		Discount:          txn.Discount,
		Method:            string(txn.Method),
		ToMethod:          string(txn.ToMethod),
		Reference:         txn.Reference,
		Description:       txn.Description,
		RelatedEntryIDs:   txn.RelatedEntryIDs,
		RelatedInvoiceIDs: txn.RelatedInvoiceIDs,
		Version:           txn.GetVersion(),
		CreatedAt:         txn.CreatedAt,
		UpdatedAt:         txn.UpdatedAt,
	}
}

// OpeningBalanceResponse is the derived money position at the start of a day
type OpeningBalanceResponse struct {
	AsOf     time.Time         `json:"as_of"`
	Position cashflow.Position `json:"position"`
}
