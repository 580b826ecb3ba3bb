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

// GormSupplierInvoiceRepository implements billing.SupplierInvoiceRepository using GORM
type GormSupplierInvoiceRepository struct {
	db *gorm.DB
}

// NewGormSupplierInvoiceRepository creates a new GormSupplierInvoiceRepository
func NewGormSupplierInvoiceRepository(db *gorm.DB) *GormSupplierInvoiceRepository {
	return &GormSupplierInvoiceRepository{db: db}
}

// FindByID finds an invoice with its items and entry links by ID
func (r *GormSupplierInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.SupplierInvoice, error) {
	var inv billing.SupplierInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("EntryLinks").
		First(&inv, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// FindByEntryID finds the invoice settling the given entry, if any
func (r *GormSupplierInvoiceRepository) FindByEntryID(ctx context.Context, entryID uuid.UUID) (*billing.SupplierInvoice, error) {
	var link billing.SupplierInvoiceEntry
	if err := r.db.WithContext(ctx).
		First(&link, "entry_id = ?", entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, link.InvoiceID)
}

// FindByIDsOrderedByCreation finds invoices by ID, oldest created first
func (r *GormSupplierInvoiceRepository) FindByIDsOrderedByCreation(ctx context.Context, ids []uuid.UUID) ([]billing.SupplierInvoice, error) {
	if len(ids) == 0 {
		return []billing.SupplierInvoice{}, nil
	}
	var invoices []billing.SupplierInvoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("EntryLinks").
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindAll finds invoices matching the filter
func (r *GormSupplierInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.SupplierInvoice, error) {
	var invoices []billing.SupplierInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.SupplierInvoice{}), filter)
	if err := query.Preload("Items").Preload("EntryLinks").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormSupplierInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&billing.SupplierInvoice{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDate counts invoices created on a calendar day, for numbering
func (r *GormSupplierInvoiceRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	return countCreatedOn(r.db.WithContext(ctx).Model(&billing.SupplierInvoice{}), date)
}

// Save creates or updates an invoice with its items and entry links
func (r *GormSupplierInvoiceRepository) Save(ctx context.Context, inv *billing.SupplierInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "EntryLinks").Save(inv).Error; err != nil {
			return err
		}
		return r.syncChildren(tx, inv)
	})
}

// SaveWithLock saves with optimistic locking: the row must still hold the
// version the invoice was loaded with.
func (r *GormSupplierInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.SupplierInvoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := optimisticUpdate(tx, &billing.SupplierInvoice{}, inv, map[string]interface{}{
			"invoice_number":    inv.InvoiceNumber,
			"supplier_id":       inv.SupplierID,
			"gross_total":       inv.GrossTotal,
			"commission_rate":   inv.CommissionRate,
			"commission_amount": inv.CommissionAmount,
			"wages":             inv.Wages,
			"adjustments":       inv.Adjustments,
			"nett_amount":       inv.NettAmount,
			"advance_paid":      inv.AdvancePaid,
			"final_payable":     inv.FinalPayable,
			"paid_amount":       inv.PaidAmount,
			"status":            inv.Status,
			"version":           inv.Version,
			"updated_at":        inv.UpdatedAt,
		}); err != nil {
			return err
		}
		return r.syncChildren(tx, inv)
	})
}

func (r *GormSupplierInvoiceRepository) syncChildren(tx *gorm.DB, inv *billing.SupplierInvoice) error {
	itemIDs := make([]uuid.UUID, len(inv.Items))
	for i, item := range inv.Items {
		itemIDs[i] = item.ID
	}
	if len(itemIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", inv.ID, itemIDs).
			Delete(&billing.SupplierInvoiceItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", inv.ID).
			Delete(&billing.SupplierInvoiceItem{}).Error; err != nil {
			return err
		}
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if err := tx.Save(&inv.Items[i]).Error; err != nil {
			return err
		}
	}

	linkIDs := make([]uuid.UUID, len(inv.EntryLinks))
	for i, link := range inv.EntryLinks {
		linkIDs[i] = link.ID
	}
	if len(linkIDs) > 0 {
		if err := tx.Where("invoice_id = ? AND id NOT IN ?", inv.ID, linkIDs).
			Delete(&billing.SupplierInvoiceEntry{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("invoice_id = ?", inv.ID).
			Delete(&billing.SupplierInvoiceEntry{}).Error; err != nil {
			return err
		}
	}
	for i := range inv.EntryLinks {
		inv.EntryLinks[i].InvoiceID = inv.ID
		if err := tx.Save(&inv.EntryLinks[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete deletes an invoice, its items and entry links
func (r *GormSupplierInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&billing.SupplierInvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&billing.SupplierInvoiceEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.SupplierInvoice{}, "id = ?", id)
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
func (r *GormSupplierInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormSupplierInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormSupplierInvoiceRepository implements billing.SupplierInvoiceRepository
var _ billing.SupplierInvoiceRepository = (*GormSupplierInvoiceRepository)(nil)
