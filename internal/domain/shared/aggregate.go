package shared

import "github.com/google/uuid"

// AggregateRoot is what the optimistically locked repositories require of an
// aggregate: its identity, the version to write and the version the stored
// row must still hold for the write to win.
type AggregateRoot interface {
	GetID() uuid.UUID
	GetVersion() int
	BaseVersion() int
	IncrementVersion()
	VersionSaved()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// The version field backs the optimistic concurrency check in the
// repositories: mutating saves compare against the version the aggregate was
// loaded with, so two writers racing on the same aggregate cannot silently
// lose an update.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`

	pending bool
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion advances the version once per load-save cycle. A flow may
// mutate a loaded aggregate several times before persisting it; the stored
// row still holds the version it was read with, so only the first mutation
// opens a new pending version.
func (a *BaseAggregateRoot) IncrementVersion() {
	if a.pending {
		return
	}
	a.Version++
	a.pending = true
}

// BaseVersion returns the version the stored row is expected to hold, i.e.
// the version this aggregate was loaded or created with.
func (a *BaseAggregateRoot) BaseVersion() int {
	if a.pending {
		return a.Version - 1
	}
	return a.Version
}

// VersionSaved marks the pending version as persisted. Repositories call it
// after a successful locked save so a later mutation of the same instance
// opens a fresh version cycle.
func (a *BaseAggregateRoot) VersionSaved() {
	a.pending = false
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}
