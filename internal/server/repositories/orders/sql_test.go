package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/clients"
	"github.com/dmitrijs2005/ordersync/internal/testutil"
)

var (
	t0  = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	day = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
)

func TestOrders(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	clientID, err := clients.NewSQLRepository(db).Create(ctx, &models.Client{
		LocalID: "C1", Name: "Cliente", PersonType: models.PersonCompany,
		Audit: models.Audit{CreatedAt: t0, UpdatedAt: t0},
	})
	require.NoError(t, err)

	repo := NewSQLRepository(db)

	id, err := repo.Create(ctx, &models.Order{
		LocalID: "O1", ClientID: clientID, Date: day,
		Audit: models.Audit{CreatedAt: t0, UpdatedAt: t0},
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "O1", got.LocalID)
	assert.Equal(t, clientID, got.ClientID)
	assert.Equal(t, "2026-10-18", got.Date.Format(time.DateOnly))

	got.Date = day.AddDate(0, 0, 1)
	got.UpdatedAt = t0.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", got.Date.Format(time.DateOnly))

	require.NoError(t, repo.Touch(ctx, id, t0.Add(2*time.Hour)))
	last, err := repo.LastUpdatedAt(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(t0.Add(2*time.Hour)))

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	changed, err := repo.ListChangedSince(ctx, t0.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestGet_Missing(t *testing.T) {
	repo := NewSQLRepository(testutil.NewSQLiteDB(t))

	_, err := repo.Get(context.Background(), 77)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
