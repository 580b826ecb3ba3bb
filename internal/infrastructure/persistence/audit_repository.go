package persistence

import (
	"context"

	"github.com/tradeyard/backend/internal/domain/audit"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormAuditRepository persists audit records. Failed writes are logged and
// swallowed so a broken audit trail never fails a business operation.
type GormAuditRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB, logger *zap.Logger) *GormAuditRepository {
	return &GormAuditRepository{db: db, logger: logger}
}

// Record appends an audit record
func (r *GormAuditRepository) Record(ctx context.Context, rec *audit.Record) {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		r.logger.Error("failed to write audit record",
			zap.String("action", rec.Action),
			zap.String("feature", rec.Feature),
			zap.Error(err),
		)
	}
}

// List returns recorded audit history, newest first
func (r *GormAuditRepository) List(ctx context.Context, limit, offset int) ([]audit.Record, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&audit.Record{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var records []audit.Record
	if err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// Ensure GormAuditRepository implements both audit interfaces
var (
	_ audit.Recorder = (*GormAuditRepository)(nil)
	_ audit.Reader   = (*GormAuditRepository)(nil)
)
