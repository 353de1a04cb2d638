package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const columns = `id, local_id, order_id, plate, model, color, created_at, updated_at, deleted_at`

func scan(s interface{ Scan(...any) error }) (*models.Vehicle, error) {
	var (
		v         models.Vehicle
		localID   sql.NullString
		deletedAt sql.NullTime
	)
	if err := s.Scan(&v.ID, &localID, &v.OrderID, &v.Plate, &v.Model, &v.Color, &v.CreatedAt, &v.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	v.LocalID = localID.String
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()
	v.DeletedAt = dbx.TimePtr(deletedAt)
	return &v, nil
}

func (r *SQLRepository) Create(ctx context.Context, v *models.Vehicle) (int64, error) {
	query :=
		`INSERT INTO vehicles (local_id, order_id, plate, model, color, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullString(v.LocalID), v.OrderID, v.Plate, v.Model, v.Color, v.CreatedAt.UTC(), v.UpdatedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, v *models.Vehicle) error {
	query :=
		`UPDATE vehicles SET plate = $2, model = $3, color = $4, updated_at = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, v.ID, v.Plate, v.Model, v.Color, v.UpdatedAt.UTC())
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

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Vehicle, error) {
	query := `SELECT ` + columns + ` FROM vehicles WHERE id = $1`

	v, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

func (r *SQLRepository) ListByOrder(ctx context.Context, orderID int64, includeDeleted bool) ([]models.Vehicle, error) {
	query := `SELECT ` + columns + ` FROM vehicles WHERE order_id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Vehicle{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
