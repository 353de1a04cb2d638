package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
)

const sinceSkew = 2 * time.Second

var sinceFloor = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NormalizeSince moves a client-supplied sync cursor two seconds back to
// absorb clock skew, never earlier than 2000-01-01 UTC.
func NormalizeSince(since time.Time) time.Time {
	n := since.UTC().Add(-sinceSkew)
	if n.Before(sinceFloor) {
		return sinceFloor
	}
	return n
}

// SyncStatus tells a replica whether anything changed since its last pull.
type SyncStatus struct {
	ServerTime           time.Time
	ClientsLastUpdatedAt *time.Time
	OrdersLastUpdatedAt  *time.Time
}

type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager) *SyncService {
	return &SyncService{db: db, repomanager: m, now: utcNow}
}

func (s *SyncService) Status(ctx context.Context) (*SyncStatus, error) {
	st := &SyncStatus{ServerTime: s.now()}

	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		var err error
		if st.ClientsLastUpdatedAt, err = s.repomanager.Clients(s.db).LastUpdatedAt(ctx); err != nil {
			return err
		}
		st.OrdersLastUpdatedAt, err = s.repomanager.Orders(s.db).LastUpdatedAt(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return st, nil
}
