package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// BuyerInvoiceRepository defines the interface for buyer invoice persistence
type BuyerInvoiceRepository interface {
	// FindByID finds an invoice with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BuyerInvoice, error)

	// FindByIDsOrderedByCreation finds invoices by ID, oldest created first.
	// The ordering drives payment allocation.
	FindByIDsOrderedByCreation(ctx context.Context, ids []uuid.UUID) ([]BuyerInvoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]BuyerInvoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByDate counts invoices created on a calendar day, for numbering
	CountByDate(ctx context.Context, date time.Time) (int64, error)

	// Save creates or updates an invoice with its items
	Save(ctx context.Context, inv *BuyerInvoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, inv *BuyerInvoice) error

	// Delete deletes an invoice and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierInvoiceRepository defines the interface for supplier invoice persistence
type SupplierInvoiceRepository interface {
	// FindByID finds an invoice with its items and entry links by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierInvoice, error)

	// FindByEntryID finds the invoice settling the given entry, if any.
	// Returns shared.ErrNotFound when the entry is unsettled.
	FindByEntryID(ctx context.Context, entryID uuid.UUID) (*SupplierInvoice, error)

	// FindByIDsOrderedByCreation finds invoices by ID, oldest created first
	FindByIDsOrderedByCreation(ctx context.Context, ids []uuid.UUID) ([]SupplierInvoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SupplierInvoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByDate counts invoices created on a calendar day, for numbering
	CountByDate(ctx context.Context, date time.Time) (int64, error)

	// Save creates or updates an invoice with its items and entry links
	Save(ctx context.Context, inv *SupplierInvoice) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, inv *SupplierInvoice) error

	// Delete deletes an invoice, its items and entry links
	Delete(ctx context.Context, id uuid.UUID) error
}
