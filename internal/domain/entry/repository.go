package entry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// Repository defines the interface for entry persistence
type Repository interface {
	// FindByID finds an entry with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)

	// FindBySupplierAndDate finds the entry for a supplier on a calendar day.
	// Returns shared.ErrNotFound when none exists.
	FindBySupplierAndDate(ctx context.Context, supplierID uuid.UUID, date time.Time) (*Entry, error)

	// FindByIDs finds multiple entries with their items
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Entry, error)

	// FindAll finds entries matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)

	// FindWithUninvoicedItemsForBuyer finds entries holding at least one item
	// auctioned to the buyer but not yet consumed by a buyer invoice
	FindWithUninvoicedItemsForBuyer(ctx context.Context, buyerID uuid.UUID) ([]Entry, error)

	// CountByDate counts entries created on a calendar day across all suppliers
	CountByDate(ctx context.Context, date time.Time) (int64, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an entry with its items
	Save(ctx context.Context, e *Entry) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, e *Entry) error

	// Delete deletes an entry and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
