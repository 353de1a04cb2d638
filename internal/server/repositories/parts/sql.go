package parts

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

const columns = `p.id, p.local_id, p.vehicle_id, p.part_type_id, p.value_cents, p.description, t.name,
	p.created_at, p.updated_at, p.deleted_at`

func scan(s interface{ Scan(...any) error }) (*models.Part, error) {
	var (
		p         models.Part
		localID   sql.NullString
		value     int64
		deletedAt sql.NullTime
	)
	err := s.Scan(&p.ID, &localID, &p.VehicleID, &p.PartTypeID, &value, &p.Description, &p.PartTypeName,
		&p.CreatedAt, &p.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	p.LocalID = localID.String
	p.Value = models.Money(value)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.DeletedAt = dbx.TimePtr(deletedAt)
	return &p, nil
}

func (r *SQLRepository) Create(ctx context.Context, p *models.Part) (int64, error) {
	query :=
		`INSERT INTO parts (local_id, vehicle_id, part_type_id, value_cents, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullString(p.LocalID), p.VehicleID, p.PartTypeID, int64(p.Value), p.Description,
		p.CreatedAt.UTC(), p.UpdatedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, p *models.Part) error {
	query :=
		`UPDATE parts SET part_type_id = $2, value_cents = $3, description = $4, updated_at = $5
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, p.ID, p.PartTypeID, int64(p.Value), p.Description, p.UpdatedAt.UTC())
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

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Part, error) {
	query := `SELECT ` + columns + `
		FROM parts p JOIN part_types t ON t.id = p.part_type_id
		WHERE p.id = $1`

	p, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *SQLRepository) ListByOrder(ctx context.Context, orderID int64, includeDeleted bool) ([]models.Part, error) {
	query := `SELECT ` + columns + `
		FROM vehicles v
		JOIN parts p ON p.vehicle_id = v.id
		JOIN part_types t ON t.id = p.part_type_id
		WHERE v.order_id = $1`
	if !includeDeleted {
		query += ` AND p.deleted_at IS NULL`
	}
	query += ` ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Part{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	query :=
		`UPDATE parts SET deleted_at = $2, updated_at = $2
		 WHERE id = $1 AND deleted_at IS NULL
		 `

	res, err := r.db.ExecContext(ctx, query, id, at.UTC())
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}
