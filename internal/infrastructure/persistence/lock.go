package persistence

import (
	"time"

	"github.com/google/uuid"
	"github.com/tradeyard/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// optimisticUpdate writes the aggregate's columns provided the stored row
// still holds the version the aggregate was loaded with. Several mutations
// may have accumulated on the aggregate since the load; they share one
// version bump, so the predicate always compares against the loaded version.
func optimisticUpdate(tx *gorm.DB, model interface{}, agg shared.AggregateRoot, values map[string]interface{}) error {
	result := tx.Model(model).
		Where("id = ? AND version = ?", agg.GetID(), agg.BaseVersion()).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lockFailure(tx, model, agg.GetID())
	}
	agg.VersionSaved()
	return nil
}

// lockFailure resolves a zero-row optimistic update into the right error:
// the row is either gone or was written by someone else since it was read.
func lockFailure(tx *gorm.DB, model interface{}, id uuid.UUID) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// countCreatedOn counts rows created within the calendar day of date
func countCreatedOn(query *gorm.DB, date time.Time) (int64, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	next := day.AddDate(0, 0, 1)
	var count int64
	if err := query.Where("created_at >= ? AND created_at < ?", day, next).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
