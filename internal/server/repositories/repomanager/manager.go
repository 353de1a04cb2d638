package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/clients"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/localkeys"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/orders"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parts"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parttypes"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/users"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/vehicles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	LocalKeys(db dbx.DBTX) localkeys.Repository
	Clients(db dbx.DBTX) clients.Repository
	Orders(db dbx.DBTX) orders.Repository
	Vehicles(db dbx.DBTX) vehicles.Repository
	Parts(db dbx.DBTX) parts.Repository
	PartTypes(db dbx.DBTX) parttypes.Repository
}
