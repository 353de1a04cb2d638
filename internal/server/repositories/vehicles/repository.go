// Package vehicles persists the vehicles attached to a service order.
package vehicles

import (
	"context"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.Vehicle) (int64, error)
	Update(ctx context.Context, v *models.Vehicle) error
	Get(ctx context.Context, id int64) (*models.Vehicle, error)
	// ListByOrder walks the order_id index.
	ListByOrder(ctx context.Context, orderID int64, includeDeleted bool) ([]models.Vehicle, error)
}
