package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/entry"
	"github.com/tradeyard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormEntryRepository implements entry.Repository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// FindByID finds an entry with its items by ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entry.Entry, error) {
	var e entry.Entry
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindBySupplierAndDate finds the entry for a supplier on a calendar day
func (r *GormEntryRepository) FindBySupplierAndDate(ctx context.Context, supplierID uuid.UUID, date time.Time) (*entry.Entry, error) {
	var e entry.Entry
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ? AND entry_date = ?", supplierID, entry.DayOf(date)).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByIDs finds multiple entries with their items
func (r *GormEntryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entry.Entry, error) {
	if len(ids) == 0 {
		return []entry.Entry{}, nil
	}
	var entries []entry.Entry
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN ?", ids).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAll finds entries matching the filter
func (r *GormEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]entry.Entry, error) {
	var entries []entry.Entry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&entry.Entry{}), filter)
	if err := query.Preload("Items").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindWithUninvoicedItemsForBuyer finds entries holding at least one item
// auctioned to the buyer but not yet consumed by a buyer invoice
func (r *GormEntryRepository) FindWithUninvoicedItemsForBuyer(ctx context.Context, buyerID uuid.UUID) ([]entry.Entry, error) {
	var entries []entry.Entry
	subQuery := r.db.Model(&entry.EntryItem{}).
		Select("entry_id").
		Where("buyer_id = ? AND invoice_id IS NULL", buyerID)

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id IN (?)", subQuery).
		Order("entry_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByDate counts entries created on a calendar day across all suppliers
func (r *GormEntryRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entry.Entry{}).
		Where("entry_date = ?", entry.DayOf(date)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts entries matching the filter
func (r *GormEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&entry.Entry{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an entry with its items
func (r *GormEntryRepository) Save(ctx context.Context, e *entry.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(e).Error; err != nil {
			return err
		}
		return r.syncItems(tx, e)
	})
}

// SaveWithLock saves with optimistic locking: the row must still hold the
// version the entry was loaded with.
func (r *GormEntryRepository) SaveWithLock(ctx context.Context, e *entry.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := optimisticUpdate(tx, &entry.Entry{}, e, map[string]interface{}{
			"serial_number":          e.SerialNumber,
			"supplier_id":            e.SupplierID,
			"entry_date":             e.EntryDate,
			"total_quantities":       e.TotalQuantities,
			"total_amount":           e.TotalAmount,
			"status":                 e.Status,
			"last_sub_serial_number": e.LastSubSerialNumber,
			"version":                e.Version,
			"updated_at":             e.UpdatedAt,
		}); err != nil {
			return err
		}
		return r.syncItems(tx, e)
	})
}

// syncItems deletes items dropped from the aggregate and saves the rest
func (r *GormEntryRepository) syncItems(tx *gorm.DB, e *entry.Entry) error {
	currentIDs := make([]uuid.UUID, len(e.Items))
	for i, item := range e.Items {
		currentIDs[i] = item.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("entry_id = ? AND id NOT IN ?", e.ID, currentIDs).
			Delete(&entry.EntryItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("entry_id = ?", e.ID).
			Delete(&entry.EntryItem{}).Error; err != nil {
			return err
		}
	}

	for i := range e.Items {
		e.Items[i].EntryID = e.ID
		if err := tx.Save(&e.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes an entry and its items
func (r *GormEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&entry.EntryItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entry.Entry{}, "id = ?", id)
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
func (r *GormEntryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("serial_number ILIKE ?", "%"+filter.Search+"%")
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
				query = query.Where("entry_date >= ?", entry.DayOf(t))
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("entry_date <= ?", entry.DayOf(t))
			}
		}
	}

	return query
}

// Ensure GormEntryRepository implements entry.Repository
var _ entry.Repository = (*GormEntryRepository)(nil)
