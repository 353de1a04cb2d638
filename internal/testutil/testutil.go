// Package testutil holds helpers shared by tests: an in-memory SQLite
// database with the real migrations applied and a silent logger.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/ordersync/internal/logging"
	"github.com/dmitrijs2005/ordersync/internal/server/migrations"
)

// SQLiteDSN returns a DSN for a private in-memory database.
func SQLiteDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_time_format=sqlite&_pragma=foreign_keys(1)", uuid.NewString())
}

// NewSQLiteDB opens a migrated in-memory database limited to one
// connection, so concurrent callers queue instead of hitting SQLITE_LOCKED.
// Do not use the returned handle while a transaction on it is open in the
// same goroutine.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", SQLiteDSN())
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db, migrations.SQLite))
	return db
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// NopLogger discards everything.
func NopLogger() logging.Logger { return nopLogger{} }
