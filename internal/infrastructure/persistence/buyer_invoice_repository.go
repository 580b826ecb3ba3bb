package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/billing"
	"github.com/tradeyard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBuyerInvoiceRepository implements billing.BuyerInvoiceRepository using GORM
type GormBuyerInvoiceRepository struct {
	db *gorm.DB
}

// NewGormBuyerInvoiceRepository creates a new GormBuyerInvoiceRepository
func NewGormBuyerInvoiceRepository(db *gorm.DB) *GormBuyerInvoiceRepository {
	return &GormBuyerInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items by ID
func (r *GormBuyerInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BuyerInvoice, error) {
	var inv billing.BuyerInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByIDsOrderedByCreation finds invoices by ID, oldest created first.
// The ordering drives payment allocation.
func (r *GormBuyerInvoiceRepository) FindByIDsOrderedByCreation(ctx context.Context, ids []uuid.UUID) ([]billing.BuyerInvoice, error) {
	if len(ids) == 0 {
		return []billing.BuyerInvoice{}, nil
	}
	var invoices []billing.BuyerInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAll finds invoices matching the filter
func (r *GormBuyerInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.BuyerInvoice, error) {
	var invoices []billing.BuyerInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.BuyerInvoice{}), filter)
	if err := query.Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormBuyerInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&billing.BuyerInvoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDate counts invoices created on a calendar day, for numbering
func (r *GormBuyerInvoiceRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return countCreatedOn(r.db.WithContext(ctx).Model(&billing.BuyerInvoice{}), date)
}

// Save creates or updates an invoice with its items
func (r *GormBuyerInvoiceRepository) Save(ctx context.Context, inv *billing.BuyerInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(inv).Error; err != nil {
			return err
		}
		return r.syncItems(tx, inv)
	})
}

// SaveWithLock saves with optimistic locking: the row must still hold the
// version the invoice was loaded with.
func (r *GormBuyerInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.BuyerInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := optimisticUpdate(tx, &billing.BuyerInvoice{}, inv, map[string]interface{}{
			"invoice_number": inv.InvoiceNumber,
			"buyer_id":       inv.BuyerID,
			"total_amount":   inv.TotalAmount,
			"wages":          inv.Wages,
			"adjustments":    inv.Adjustments,
			"discount":       inv.Discount,
			"nett_amount":    inv.NettAmount,
			"paid_amount":    inv.PaidAmount,
			"version":        inv.Version,
			"updated_at":     inv.UpdatedAt,
		}); err != nil {
			return err
		}
		return r.syncItems(tx, inv)
	})
}

func (r *GormBuyerInvoiceRepository) syncItems(tx *gorm.DB, inv *billing.BuyerInvoice) error {
	currentIDs := make([]uuid.UUID, len(inv.Items))
	for i, item := range inv.Items {
		currentIDs[i] = item.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", inv.ID, currentIDs).
			Delete(&billing.BuyerInvoiceItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", inv.ID).
			Delete(&billing.BuyerInvoiceItem{}).Error; err != nil {
			return err
		}
	}

	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if err := tx.Save(&inv.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes an invoice and its items
func (r *GormBuyerInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&billing.BuyerInvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.BuyerInvoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormBuyerInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBuyerInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		case "unpaid":
			if flag, ok := value.(bool); ok && flag {
				query = query.Where("paid_amount < nett_amount - discount")
			}
		}
	}

	return query
}

// Ensure GormBuyerInvoiceRepository implements billing.BuyerInvoiceRepository
var _ billing.BuyerInvoiceRepository = (*GormBuyerInvoiceRepository)(nil)
