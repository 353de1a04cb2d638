package clients

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Client) (int64, error)
	// Update replaces every value column of the row with id c.ID, keeping
	// created_at and deleted_at.
	Update(ctx context.Context, c *models.Client) error
	// Get returns the client even when it is soft-deleted.
	Get(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context, includeDeleted bool) ([]models.Client, error)
	// ListChangedSince returns clients updated after since, deleted ones included.
	ListChangedSince(ctx context.Context, since time.Time) ([]models.Client, error)
	// SoftDelete marks the client deleted; it reports false when it already was.
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
	LastUpdatedAt(ctx context.Context) (*time.Time, error)
}
