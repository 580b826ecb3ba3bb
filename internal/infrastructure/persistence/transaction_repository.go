package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/cashflow"
	"github.com/tradeyard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormTransactionRepository implements cashflow.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*cashflow.Transaction, error) {
	var txn cashflow.Transaction
	if err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindAll finds transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]cashflow.Transaction, error) {
	var txns []cashflow.Transaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&cashflow.Transaction{}), filter)
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindBefore finds all transactions dated strictly before the given day,
// ordered by date then creation time
func (r *GormTransactionRepository) FindBefore(ctx context.Context, day time.Time) ([]cashflow.Transaction, error) {
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var txns []cashflow.Transaction
	if err := r.db.WithContext(ctx).
		Where("date < ?", cutoff).
		Order("date ASC, created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindByRelatedInvoice finds transactions referencing the invoice.
// The related id lists are stored as JSON text, so the match is a
// substring test on the serialized form.
func (r *GormTransactionRepository) FindByRelatedInvoice(ctx context.Context, invoiceID uuid.UUID) ([]cashflow.Transaction, error) {
	var txns []cashflow.Transaction
	pattern := "%" + invoiceID.String() + "%"
	if err := r.db.WithContext(ctx).
		Where("related_invoice_ids LIKE ?", pattern).
		Order("created_at ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&cashflow.Transaction{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, txn *cashflow.Transaction) error {
	return r.db.WithContext(ctx).Save(txn).Error
}

// SaveWithLock saves with optimistic locking: the row must still hold the
// version the transaction was loaded with.
func (r *GormTransactionRepository) SaveWithLock(ctx context.Context, txn *cashflow.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relatedEntries, err := txn.RelatedEntryIDs.Value()
		if err != nil {
			return err
		}
		relatedInvoices, err := txn.RelatedInvoiceIDs.Value()
		if err != nil {
			return err
		}

		return optimisticUpdate(tx, &cashflow.Transaction{}, txn, map[string]interface{}{
			"date":                txn.Date,
			"type":                txn.Type,
			"category":            txn.Category,
			"entity_id":           txn.EntityID,
			"entity_name":         txn.EntityName,
			"amount":              txn.Amount,
			"discount":            txn.Discount,
			"method":              txn.Method,
			"to_method":           txn.ToMethod,
			"reference":           txn.Reference,
			"description":         txn.Description,
			"related_entry_ids":   relatedEntries,
			"related_invoice_ids": relatedInvoices,
			"version":             txn.Version,
			"updated_at":          txn.UpdatedAt,
		})
	})
}

// Delete deletes a transaction
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&cashflow.Transaction{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("date DESC, created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("entity_name ILIKE ? OR reference ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "method":
			query = query.Where("method = ?", value)
		case "category":
			query = query.Where("category = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormTransactionRepository implements cashflow.Repository
var _ cashflow.Repository = (*GormTransactionRepository)(nil)
