package parttypes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/testutil"
)

func TestCatalog_SeededAndCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLRepository(testutil.NewSQLiteDB(t))

	first, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Serviço geral", first.Name)
	assert.Equal(t, models.Money(0), first.DefaultValue)

	id, err := repo.Create(ctx, &models.PartType{Name: "Retrovisor", DefaultValue: 12990, CreatedAt: time.Now()})
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Money(12990), got.DefaultValue)

	_, err = repo.Create(ctx, &models.PartType{Name: "Retrovisor", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, common.ErrConflict)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGet_NotFound(t *testing.T) {
	repo := NewSQLRepository(testutil.NewSQLiteDB(t))

	_, err := repo.Get(context.Background(), 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
