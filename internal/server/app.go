// Package server wires configuration, storage and services together and runs
// the REST API and the gRPC health listener until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/ordersync/internal/logging"
	"github.com/dmitrijs2005/ordersync/internal/server/config"
	gs "github.com/dmitrijs2005/ordersync/internal/server/grpc"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordersync/internal/server/rest"
	"github.com/dmitrijs2005/ordersync/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	services rest.Services
}

// NewApp opens the database, applies migrations and makes sure the admin
// account exists.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))

	db, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	users := services.NewUserService(db, m, c)
	if err := users.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("admin user: %w", err)
	}

	rec := services.NewReconciler(db, m, logger.With("module", "reconciler"))

	return &App{
		config: c,
		logger: logger,
		db:     db,
		services: rest.Services{
			Auth:      users,
			Clients:   services.NewClientService(db, m, rec, c),
			Orders:    services.NewOrderService(db, m, rec, c),
			Catalog:   services.NewCatalogService(db, m),
			Sync:      services.NewSyncService(db, m),
			Snapshots: services.NewSnapshotService(c),
		},
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.config.BasePath, []byte(app.config.SecretKey),
		app.logger.With("module", "http_server"), app.services)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or either listener fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
