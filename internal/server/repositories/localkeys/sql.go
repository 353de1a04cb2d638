package localkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Resolve(ctx context.Context, entityType models.EntityType, localID string) (int64, bool, error) {
	query :=
		`SELECT server_id FROM local_keys
		 WHERE entity_type = $1 AND local_id = $2
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, string(entityType), localID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db error: %w", err)
	}

	return id, true, nil
}

func (r *SQLRepository) Bind(ctx context.Context, entityType models.EntityType, localID string, serverID int64, now time.Time) error {
	query :=
		`INSERT INTO local_keys (entity_type, local_id, server_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (entity_type, local_id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, string(entityType), localID, serverID, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 1 {
		return nil
	}

	existing, found, err := r.Resolve(ctx, entityType, localID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("local key %s/%s vanished after conflict: %w", entityType, localID, common.ErrorInternal)
	}
	if existing != serverID {
		return fmt.Errorf("local key %s/%s is bound to %d: %w", entityType, localID, existing, common.ErrConflict)
	}

	return nil
}
