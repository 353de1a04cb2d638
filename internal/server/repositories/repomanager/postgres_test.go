package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ordersync/internal/server/migrations"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/clients"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/localkeys"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/orders"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parts"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/parttypes"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/users"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/vehicles"
	"github.com/dmitrijs2005/ordersync/internal/testutil"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager(DriverPostgres)
	require.NoError(t, err)
	assert.Equal(t, migrations.Postgres, m.(*SQLRepositoryManager).dialect)

	m, err = NewRepositoryManager(DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, migrations.SQLite, m.(*SQLRepositoryManager).dialect)

	_, err = NewRepositoryManager("mysql")
	require.Error(t, err)
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &SQLRepositoryManager{}

	var _ users.Repository = m.Users(db)
	var _ refreshtokens.Repository = m.RefreshTokens(db)
	var _ localkeys.Repository = m.LocalKeys(db)
	var _ clients.Repository = m.Clients(db)
	var _ orders.Repository = m.Orders(db)
	var _ vehicles.Repository = m.Vehicles(db)
	var _ parts.Repository = m.Parts(db)
	var _ parttypes.Repository = m.PartTypes(db)

	assert.NotNil(t, m.Parts(db))
	assert.NotNil(t, m.LocalKeys(db))
}

func TestRunMigrations_PassesDialect(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrateUp
	var got string
	migrateUp = func(ctx context.Context, db *sql.DB, dialect string) error {
		got = dialect
		return nil
	}
	defer func() { migrateUp = orig }()

	m := &SQLRepositoryManager{dialect: migrations.Postgres}
	require.NoError(t, m.RunMigrations(context.Background(), db))
	assert.Equal(t, migrations.Postgres, got)
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := migrateUp
	migrateUp = func(ctx context.Context, db *sql.DB, dialect string) error {
		return errors.New("boom")
	}
	defer func() { migrateUp = orig }()

	m := &SQLRepositoryManager{dialect: migrations.SQLite}
	err := m.RunMigrations(context.Background(), db)
	require.EqualError(t, err, "boom")
}

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, DriverSQLite, testutil.SQLiteDSN())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	m, err := NewRepositoryManager(DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))

	pt, err := m.PartTypes(db).Get(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, pt.Name)
}

func TestOpen_OpenError(t *testing.T) {
	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) { return nil, errors.New("no driver") }
	defer func() { sqlOpen = orig }()

	_, err := Open(context.Background(), DriverPostgres, "postgres://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no driver")
}
