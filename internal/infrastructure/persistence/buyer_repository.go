package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/partner"
	"github.com/tradeyard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBuyerRepository implements partner.BuyerRepository using GORM
type GormBuyerRepository struct {
	db *gorm.DB
}

// NewGormBuyerRepository creates a new GormBuyerRepository
func NewGormBuyerRepository(db *gorm.DB) *GormBuyerRepository {
	return &GormBuyerRepository{db: db}
}

// FindByID finds a buyer by ID
func (r *GormBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Buyer, error) {
	var buyer partner.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &buyer, nil
}

// FindAll finds buyers matching the filter
func (r *GormBuyerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Buyer, error) {
	var buyers []partner.Buyer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Buyer{}), filter)
	if err := query.Find(&buyers).Error; err != nil {
		return nil, err
	}
	return buyers, nil
}

// Count counts buyers matching the filter
func (r *GormBuyerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&partner.Buyer{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a buyer
func (r *GormBuyerRepository) Save(ctx context.Context, buyer *partner.Buyer) error {
	return r.db.WithContext(ctx).Save(buyer).Error
}

// SaveWithLock saves with optimistic locking: the row must still hold the
// version the buyer was loaded with.
func (r *GormBuyerRepository) SaveWithLock(ctx context.Context, buyer *partner.Buyer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return optimisticUpdate(tx, &partner.Buyer{}, buyer, map[string]interface{}{
			"buyer_name":  buyer.BuyerName,
			"phone":       buyer.Phone,
			"address":     buyer.Address,
			"outstanding": buyer.Outstanding,
			"version":     buyer.Version,
			"updated_at":  buyer.UpdatedAt,
		})
	})
}

// Delete deletes a buyer
func (r *GormBuyerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Buyer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormBuyerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormBuyerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("buyer_name ILIKE ? OR phone ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "has_outstanding":
			if flag, ok := value.(bool); ok && flag {
				query = query.Where("outstanding <> 0")
			}
		}
	}

	return query
}

// Ensure GormBuyerRepository implements partner.BuyerRepository
var _ partner.BuyerRepository = (*GormBuyerRepository)(nil)
