package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS local_keys (local_id TEXT PRIMARY KEY, server_id INTEGER NOT NULL)`)
	require.NoError(t, err)
	return db
}

func countKeys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM local_keys`).Scan(&n))
	return n
}

func bind(ctx context.Context, tx DBTX, localID string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO local_keys (local_id, server_id) VALUES ($1, 1)`, localID)
	return err
}

func TestWithTx_Commit(t *testing.T) {
	db := setupDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		return bind(ctx, tx, "P1")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countKeys(t, db))
}

func TestWithTx_RollbackKeepsSentinel(t *testing.T) {
	db := setupDB(t)
	errLost := errors.New("lost race")

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		require.NoError(t, bind(ctx, tx, "P1"))
		return errLost
	})
	assert.Same(t, errLost, err)
	assert.Equal(t, 0, countKeys(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, bind(ctx, tx, "P1"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, countKeys(t, db))
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
}

func TestWithTx_CommitAndRollbackErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(boom)
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return nil })
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "commit")

	fnErr := errors.New("validation failed")
	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(boom)
	err = WithTx(context.Background(), db, nil, func(context.Context, DBTX) error { return fnErr })
	assert.ErrorIs(t, err, fnErr)
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
