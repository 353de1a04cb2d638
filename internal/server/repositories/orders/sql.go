package orders

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

const columns = `id, local_id, client_id, order_date, created_at, updated_at, deleted_at`

func scan(s interface{ Scan(...any) error }) (*models.Order, error) {
	var (
		o         models.Order
		localID   sql.NullString
		deletedAt sql.NullTime
	)
	if err := s.Scan(&o.ID, &localID, &o.ClientID, &o.Date, &o.CreatedAt, &o.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	o.LocalID = localID.String
	o.Date = o.Date.UTC()
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	o.DeletedAt = dbx.TimePtr(deletedAt)
	return &o, nil
}

func (r *SQLRepository) Create(ctx context.Context, o *models.Order) (int64, error) {
	query :=
		`INSERT INTO orders (local_id, client_id, order_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullString(o.LocalID), o.ClientID, o.Date.UTC(), o.CreatedAt.UTC(), o.UpdatedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, o *models.Order) error {
	query :=
		`UPDATE orders SET order_date = $2, updated_at = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, o.ID, o.Date.UTC(), o.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + columns + ` FROM orders WHERE id = $1`

	o, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return o, nil
}

func (r *SQLRepository) List(ctx context.Context, includeDeleted bool) ([]models.Order, error) {
	query := `SELECT ` + columns + ` FROM orders`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY order_date DESC, id DESC`

	return r.list(ctx, query)
}

func (r *SQLRepository) ListChangedSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	query := `SELECT ` + columns + ` FROM orders WHERE updated_at > $1 ORDER BY updated_at, id`

	return r.list(ctx, query, since.UTC())
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Order{}
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Touch(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE orders SET updated_at = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at.UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) LastUpdatedAt(ctx context.Context) (*time.Time, error) {
	query := `SELECT updated_at FROM orders ORDER BY updated_at DESC LIMIT 1`

	var t time.Time
	err := r.db.QueryRowContext(ctx, query).Scan(&t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	t = t.UTC()
	return &t, nil
}
