package users

import (
	"context"

	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type Repository interface {
	// Create inserts the user; an existing email yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}
