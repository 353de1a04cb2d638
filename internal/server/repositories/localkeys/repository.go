// Package localkeys stores the mapping from client-generated local ids to
// server ids, scoped by entity type.
package localkeys

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	// Resolve returns the server id bound to (entityType, localID), with
	// found=false when the pair has never been bound.
	Resolve(ctx context.Context, entityType models.EntityType, localID string) (serverID int64, found bool, err error)
	// Bind records the mapping, stamped with now. Re-binding the same
	// server id is a no-op; a different server id fails with
	// common.ErrConflict.
	Bind(ctx context.Context, entityType models.EntityType, localID string, serverID int64, now time.Time) error
}
