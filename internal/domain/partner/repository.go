package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/shared"
)

// BuyerRepository defines the interface for buyer persistence
type BuyerRepository interface {
	// FindByID finds a buyer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Buyer, error)

	// FindAll finds buyers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Buyer, error)

	// Count counts buyers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a buyer
	Save(ctx context.Context, buyer *Buyer) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, buyer *Buyer) error

	// Delete deletes a buyer
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindAll finds suppliers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Count counts suppliers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, supplier *Supplier) error

	// Delete deletes a supplier
	Delete(ctx context.Context, id uuid.UUID) error
}
