package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ordersync/internal/server/config"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordersync/internal/testutil"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type harness struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	clock   *fakeClock
	rec     *Reconciler
	clients *ClientService
	orders  *OrderService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	m, err := repomanager.NewRepositoryManager(repomanager.DriverSQLite)
	require.NoError(t, err)

	cfg := &config.Config{StrictValidation: true}
	clock := &fakeClock{t: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)}

	rec := NewReconciler(db, m, testutil.NopLogger())
	rec.now = clock.Now
	cs := NewClientService(db, m, rec, cfg)
	cs.now = clock.Now
	ords := NewOrderService(db, m, rec, cfg)
	ords.now = clock.Now

	return &harness{db: db, repos: m, clock: clock, rec: rec, clients: cs, orders: ords}
}

func (h *harness) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, h.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func validClient(localID string) ClientInput {
	return ClientInput{
		LocalID:    localID,
		Name:       "Oficina Central LTDA",
		PersonType: models.PersonIndividual,
		CPF:        "529.982.247-25",
		Email:      "contato@oficina.com",
		Contact:    "Maria",
	}
}

func money(v models.Money) *models.Money { return &v }

// seedVehicle builds client -> order -> vehicle and returns their server ids.
func (h *harness) seedVehicle(t *testing.T) (clientID, orderID, vehicleID int64) {
	t.Helper()
	ctx := context.Background()

	c, _, err := h.clients.Submit(ctx, validClient("c-seed"))
	require.NoError(t, err)

	tree, _, err := h.orders.SubmitOrder(ctx, OrderInput{LocalID: "o-seed", Client: ParentRef{ID: c.ID}})
	require.NoError(t, err)

	tree, _, err = h.orders.SubmitVehicle(ctx, VehicleInput{
		LocalID: "v-seed", Order: ParentRef{ID: tree.ID}, Plate: "ABC1D23", Model: "Gol",
	})
	require.NoError(t, err)
	require.Len(t, tree.Vehicles, 1)

	return c.ID, tree.ID, tree.Vehicles[0].ID
}
