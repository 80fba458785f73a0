package shared

import (
	"time"

	"github.com/google/uuid"
)

// DefaultActor is the audit actor recorded when no authenticated actor is present.
const DefaultActor = "System"

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities: identity, timestamps,
// audit actors and the active flag.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
	Active    bool
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch stamps the entity with the acting user and the current time.
func (e *BaseEntity) Touch(actor string) {
	if actor == "" {
		actor = DefaultActor
	}
	e.UpdatedAt = time.Now()
	e.UpdatedBy = actor
}

// Activate marks the entity as active
func (e *BaseEntity) Activate(actor string) {
	e.Active = true
	e.Touch(actor)
}

// Deactivate marks the entity as inactive
func (e *BaseEntity) Deactivate(actor string) {
	e.Active = false
	e.Touch(actor)
}

// NewBaseEntity creates a new base entity with generated ID, stamped with the
// acting user.
func NewBaseEntity(actor string) BaseEntity {
	if actor == "" {
		actor = DefaultActor
	}
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		CreatedBy: actor,
		UpdatedAt: now,
		UpdatedBy: actor,
		Active:    true,
	}
}
