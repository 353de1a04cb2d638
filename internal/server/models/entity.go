// Package models defines the server-side records persisted in the database
// and the composite views returned to clients.
package models

import "time"

// EntityType scopes local identifiers: the same local id may be used once
// per entity type.
type EntityType string

const (
	EntityClient  EntityType = "client"
	EntityOrder   EntityType = "order"
	EntityVehicle EntityType = "vehicle"
	EntityPart    EntityType = "part"
)

// ParentType returns the entity type a record of type t must hang from.
// Clients are roots and report false.
func (t EntityType) ParentType() (EntityType, bool) {
	switch t {
	case EntityOrder:
		return EntityClient, true
	case EntityVehicle:
		return EntityOrder, true
	case EntityPart:
		return EntityVehicle, true
	default:
		return "", false
	}
}

// Audit holds the bookkeeping columns every synced record carries.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// Active reports whether the record has not been soft-deleted.
func (a Audit) Active() bool {
	return a.DeletedAt == nil
}
