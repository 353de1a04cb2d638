// Package repomanager vends repositories bound to a dbx.DBTX and owns the
// schema migrations and connection setup for each supported driver.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/migrations"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/clients"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/localkeys"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/orders"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parts"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parttypes"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/users"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/vehicles"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// SQLRepositoryManager serves both PostgreSQL and SQLite: the repositories
// share their SQL and only the migrations differ per dialect.
type SQLRepositoryManager struct {
	dialect string
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) LocalKeys(db dbx.DBTX) localkeys.Repository {
	return localkeys.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Clients(db dbx.DBTX) clients.Repository {
	return clients.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Orders(db dbx.DBTX) orders.Repository {
	return orders.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Vehicles(db dbx.DBTX) vehicles.Repository {
	return vehicles.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Parts(db dbx.DBTX) parts.Repository {
	return parts.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) PartTypes(db dbx.DBTX) parttypes.Repository {
	return parttypes.NewSQLRepository(db)
}

// migrateUp is a seam for testing migrations.Up.
var migrateUp = migrations.Up

// RunMigrations applies the embedded migrations of the manager's dialect.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := migrateUp(ctx, db, m.dialect); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager returns the manager for a database/sql driver name.
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case DriverPostgres:
		return &SQLRepositoryManager{dialect: migrations.Postgres}, nil
	case DriverSQLite:
		return &SQLRepositoryManager{dialect: migrations.SQLite}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqlOpen is a seam for testing.
var sqlOpen = sql.Open

// Open connects and pings. SQLite is limited to a single connection since
// it allows one writer at a time.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}
