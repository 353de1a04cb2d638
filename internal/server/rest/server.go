// Package rest exposes the sync API as JSON over HTTP.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/logging"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type ClientService interface {
	Submit(ctx context.Context, in services.ClientInput) (*models.Client, bool, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	List(ctx context.Context, includeDeleted bool, since *time.Time) ([]models.Client, error)
	Delete(ctx context.Context, id int64) error
}

type OrderService interface {
	SubmitOrder(ctx context.Context, in services.OrderInput) (*models.OrderTree, bool, error)
	SubmitVehicle(ctx context.Context, in services.VehicleInput) (*models.OrderTree, bool, error)
	SubmitPart(ctx context.Context, in services.PartInput) (*models.OrderTree, bool, error)
	RemovePart(ctx context.Context, id int64) (*models.OrderTree, error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*models.OrderTree, error)
	List(ctx context.Context, includeDeleted bool, since *time.Time) ([]*models.OrderTree, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]models.PartType, error)
	Create(ctx context.Context, name string, defaultValue models.Money) (*models.PartType, error)
}

type SyncService interface {
	Status(ctx context.Context) (*services.SyncStatus, error)
}

type SnapshotService interface {
	Export(ctx context.Context, orderID int64, body []byte) (*services.Snapshot, error)
}

// Services bundles what the handlers call into.
type Services struct {
	Auth      AuthService
	Clients   ClientService
	Orders    OrderService
	Catalog   CatalogService
	Sync      SyncService
	Snapshots SnapshotService
}

type Server struct {
	address  string
	basePath string
	secret   []byte
	logger   logging.Logger
	svc      Services
}

func NewServer(address, basePath string, secret []byte, logger logging.Logger, svc Services) *Server {
	return &Server{
		address:  address,
		basePath: strings.TrimRight(basePath, "/"),
		secret:   secret,
		logger:   logger,
		svc:      svc,
	}
}

// Handler returns the full middleware chain with every route mounted under
// the base path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /auth/login", s.login)
	mux.HandleFunc("POST /auth/refresh", s.refresh)

	mux.HandleFunc("POST /clientes", s.requireAuth(s.submitClient))
	mux.HandleFunc("GET /clientes", s.requireAuth(s.listClients))
	mux.HandleFunc("GET /clientes/{id}", s.requireAuth(s.getClient))
	mux.HandleFunc("DELETE /clientes/{id}", s.requireAuth(s.deleteClient))

	mux.HandleFunc("POST /ordens-servico", s.requireAuth(s.submitOrder))
	mux.HandleFunc("GET /ordens-servico", s.requireAuth(s.listOrders))
	mux.HandleFunc("GET /ordens-servico/{id}", s.requireAuth(s.getOrder))
	mux.HandleFunc("POST /ordens-servico/veiculos", s.requireAuth(s.submitVehicle))
	mux.HandleFunc("POST /ordens-servico/pecas", s.requireAuth(s.submitPart))
	mux.HandleFunc("DELETE /ordens-servico/pecas/{id}", s.requireAuth(s.removePart))
	mux.HandleFunc("POST /ordens-servico/{id}/snapshot", s.requireAuth(s.exportSnapshot))

	mux.HandleFunc("GET /tipos-peca", s.requireAuth(s.listPartTypes))
	mux.HandleFunc("POST /tipos-peca", s.requireAuth(s.createPartType))

	mux.HandleFunc("GET /sync/status", s.requireAuth(s.syncStatus))

	var h http.Handler = mux
	if s.basePath != "" {
		h = http.StripPrefix(s.basePath, mux)
	}
	return requestID(s.logRequests(s.recoverPanics(h)))
}

func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address, "base_path", s.basePath)
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
