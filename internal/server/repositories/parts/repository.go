// Package parts persists the priced items attached to a vehicle.
package parts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Part) (int64, error)
	Update(ctx context.Context, p *models.Part) error
	Get(ctx context.Context, id int64) (*models.Part, error)
	// ListByOrder returns the parts of every vehicle of the order, joined
	// with the catalog for the part type name.
	ListByOrder(ctx context.Context, orderID int64, includeDeleted bool) ([]models.Part, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error)
}
