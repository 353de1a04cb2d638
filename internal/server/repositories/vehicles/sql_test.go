package vehicles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/clients"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/orders"
	"github.com/dmitrijs2005/ordersync/internal/testutil"
)

var t0 = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func audit(at time.Time) models.Audit { return models.Audit{CreatedAt: at, UpdatedAt: at} }

func TestVehiclesLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	clientID, err := clients.NewSQLRepository(db).Create(ctx, &models.Client{
		LocalID: "C1", Name: "Cliente", PersonType: models.PersonIndividual, Audit: audit(t0),
	})
	require.NoError(t, err)
	orderID, err := orders.NewSQLRepository(db).Create(ctx, &models.Order{
		LocalID: "O1", ClientID: clientID, Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Audit: audit(t0),
	})
	require.NoError(t, err)

	repo := NewSQLRepository(db)
	v1, err := repo.Create(ctx, &models.Vehicle{LocalID: "V1", OrderID: orderID, Plate: "ABC1D23", Model: "Gol", Color: "Azul", Audit: audit(t0)})
	require.NoError(t, err)
	v2, err := repo.Create(ctx, &models.Vehicle{OrderID: orderID, Plate: "ABC1234", Model: "Uno", Audit: audit(t0)})
	require.NoError(t, err)

	got, err := repo.Get(ctx, v1)
	require.NoError(t, err)
	assert.Equal(t, "V1", got.LocalID)
	assert.Equal(t, orderID, got.OrderID)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Nil(t, got.DeletedAt)

	got.Color = "Preto"
	got.UpdatedAt = t0.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, v1)
	require.NoError(t, err)
	assert.Equal(t, "Preto", got.Color)
	assert.Equal(t, t0.Add(time.Hour), got.UpdatedAt)
	assert.Equal(t, t0, got.CreatedAt)

	anon, err := repo.Get(ctx, v2)
	require.NoError(t, err)
	assert.Empty(t, anon.LocalID)

	_, err = db.ExecContext(ctx, `UPDATE vehicles SET deleted_at = $1 WHERE id = $2`, t0.Add(2*time.Hour), v2)
	require.NoError(t, err)

	list, err := repo.ListByOrder(ctx, orderID, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, v1, list[0].ID)

	list, err = repo.ListByOrder(ctx, orderID, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotNil(t, list[1].DeletedAt)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	err = repo.Update(ctx, &models.Vehicle{ID: 999, Audit: audit(t0)})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestVehicles_DBErrors(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewSQLRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+vehicles`).WillReturnError(boom)
	_, err = repo.Create(context.Background(), &models.Vehicle{OrderID: 1, Audit: audit(t0)})
	assert.ErrorIs(t, err, boom)

	mock.ExpectQuery(`(?s)^SELECT .* FROM vehicles WHERE order_id = \$1`).WithArgs(int64(1)).WillReturnError(boom)
	_, err = repo.ListByOrder(context.Background(), 1, false)
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec(`(?s)^UPDATE\s+vehicles`).WillReturnResult(sqlmock.NewErrorResult(boom))
	err = repo.Update(context.Background(), &models.Vehicle{ID: 1, Audit: audit(t0)})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
