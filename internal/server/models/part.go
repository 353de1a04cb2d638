package models

import "time"

// Part is a priced item on a vehicle. PartTypeName is filled on reads from
// the part type catalog.
type Part struct {
	ID           int64
	LocalID      string
	VehicleID    int64
	PartTypeID   int64
	Value        Money
	Description  string
	PartTypeName string
	Audit
}

// PartType is a catalog entry parts are priced from.
type PartType struct {
	ID           int64
	Name         string
	DefaultValue Money
	CreatedAt    time.Time
}
