package parttypes

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

func scan(s interface{ Scan(...any) error }) (*models.PartType, error) {
	var (
		pt    models.PartType
		value int64
	)
	if err := s.Scan(&pt.ID, &pt.Name, &value, &pt.CreatedAt); err != nil {
		return nil, err
	}
	pt.DefaultValue = models.Money(value)
	pt.CreatedAt = pt.CreatedAt.UTC()
	return &pt, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.PartType, error) {
	query := `SELECT id, name, default_value_cents, created_at FROM part_types WHERE id = $1`

	pt, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return pt, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]models.PartType, error) {
	query := `SELECT id, name, default_value_cents, created_at FROM part_types ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.PartType{}
	for rows.Next() {
		pt, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *pt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Create(ctx context.Context, pt *models.PartType) (int64, error) {
	query :=
		`INSERT INTO part_types (name, default_value_cents, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, pt.Name, int64(pt.DefaultValue), pt.CreatedAt.UTC()).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("part type %q: %w", pt.Name, common.ErrConflict)
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}
