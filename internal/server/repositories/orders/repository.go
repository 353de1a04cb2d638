// Package orders persists service orders, the children of clients.
package orders

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, o *models.Order) (int64, error)
	// Update replaces the value columns of the row o.ID. The owning client is
	// never changed here.
	Update(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, includeDeleted bool) ([]models.Order, error)
	ListChangedSince(ctx context.Context, since time.Time) ([]models.Order, error)
	// Touch bumps updated_at, used when a nested vehicle or part changes.
	Touch(ctx context.Context, id int64, at time.Time) error
	LastUpdatedAt(ctx context.Context) (*time.Time, error)
}
