package services

import (
	"time"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/clients"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/localkeys"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/orders"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parts"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parttypes"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/vehicles"
)

// Repos hands out repositories bound to a single handle: the pool or an
// open transaction.
type Repos struct {
	m  repomanager.RepositoryManager
	db dbx.DBTX
}

func newRepos(m repomanager.RepositoryManager, db dbx.DBTX) Repos {
	return Repos{m: m, db: db}
}

func (r Repos) LocalKeys() localkeys.Repository { return r.m.LocalKeys(r.db) }
func (r Repos) Clients() clients.Repository     { return r.m.Clients(r.db) }
func (r Repos) Orders() orders.Repository       { return r.m.Orders(r.db) }
func (r Repos) Vehicles() vehicles.Repository   { return r.m.Vehicles(r.db) }
func (r Repos) Parts() parts.Repository         { return r.m.Parts(r.db) }
func (r Repos) PartTypes() parttypes.Repository { return r.m.PartTypes(r.db) }

// utcNow is the default clock. Timestamps are truncated to microseconds,
// the precision both PostgreSQL and the SQLite text format keep.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
