package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actor is the already-authenticated identity performing an operation.
// The core never verifies it, only consumes it for attribution.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Record is an append-only note of who did what. Records are written as a
// side effect of every mutating operation and never read back by the core.
type Record struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ActorID     uuid.UUID `gorm:"type:uuid;index"`
	ActorName   string    `gorm:"type:varchar(200)"`
	Action      string    `gorm:"type:varchar(50);not null"`
	Feature     string    `gorm:"type:varchar(50);not null;index"`
	Description string    `gorm:"type:text"`
	Timestamp   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "audit_records"
}

// NewRecord creates an audit record stamped with the current time
func NewRecord(actorID uuid.UUID, actorName, action, feature, description string) *Record {
	return &Record{
		ID:          uuid.New(),
		ActorID:     actorID,
		ActorName:   actorName,
		Action:      action,
		Feature:     feature,
		Description: description,
		Timestamp:   time.Now(),
	}
}

// Recorder appends audit records. Implementations must never fail a business
// operation on audit write errors; they log and move on.
type Recorder interface {
	Record(ctx context.Context, rec *Record)
}

// Reader lists recorded audit history for the admin surface
type Reader interface {
	List(ctx context.Context, limit, offset int) ([]Record, int64, error)
}
