// Package parttypes is the catalog parts are priced from.
package parttypes

import (
	"context"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*models.PartType, error)
	List(ctx context.Context) ([]models.PartType, error)
	// Create fails with common.ErrConflict when the name is taken.
	Create(ctx context.Context, pt *models.PartType) (int64, error)
}
