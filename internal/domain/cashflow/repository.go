package cashflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Repository defines the interface for transaction persistence
type Repository interface {
	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindAll finds transactions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Transaction, error)

	// FindBefore finds all transactions dated strictly before the given day,
	// ordered by date then creation time. Used for opening balance replay.
	FindBefore(ctx context.Context, day time.Time) ([]Transaction, error)

	// FindByRelatedInvoice finds transactions referencing the invoice
	FindByRelatedInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Transaction, error)

	// Count counts transactions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a transaction
	Save(ctx context.Context, txn *Transaction) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, txn *Transaction) error

	// Delete deletes a transaction
	Delete(ctx context.Context, id uuid.UUID) error
}
