// Package clients persists the root entity of the hierarchy.
package clients

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

const columns = `id, local_id, name, trade_name, person_type, cpf, cnpj, email, contact, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Client, error) {
	var (
		c         models.Client
		localID   sql.NullString
		personTyp string
		deletedAt sql.NullTime
	)
	err := s.Scan(&c.ID, &localID, &c.Name, &c.TradeName, &personTyp, &c.CPF, &c.CNPJ, &c.Email, &c.Contact,
		&c.CreatedAt, &c.UpdatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	c.LocalID = localID.String
	c.PersonType = models.PersonType(personTyp)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.DeletedAt = dbx.TimePtr(deletedAt)
	return &c, nil
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Client) (int64, error) {
	query :=
		`INSERT INTO clients (local_id, name, trade_name, person_type, cpf, cnpj, email, contact, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		dbx.NullString(c.LocalID), c.Name, c.TradeName, string(c.PersonType), c.CPF, c.CNPJ, c.Email, c.Contact,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *models.Client) error {
	query :=
		`UPDATE clients
		 SET name = $2, trade_name = $3, person_type = $4, cpf = $5, cnpj = $6, email = $7, contact = $8, updated_at = $9
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.TradeName, string(c.PersonType), c.CPF, c.CNPJ, c.Email, c.Contact, c.UpdatedAt.UTC())
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

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT ` + columns + ` FROM clients WHERE id = $1`

	c, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *SQLRepository) List(ctx context.Context, includeDeleted bool) ([]models.Client, error) {
	query := `SELECT ` + columns + ` FROM clients`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY name, id`

	return r.list(ctx, query)
}

func (r *SQLRepository) ListChangedSince(ctx context.Context, since time.Time) ([]models.Client, error) {
	query := `SELECT ` + columns + ` FROM clients WHERE updated_at > $1 ORDER BY updated_at, id`

	return r.list(ctx, query, since.UTC())
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Client{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) SoftDelete(ctx context.Context, id int64, at time.Time) (bool, error) {
	query :=
		`UPDATE clients SET deleted_at = $2, updated_at = $2
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

func (r *SQLRepository) LastUpdatedAt(ctx context.Context) (*time.Time, error) {
	query := `SELECT updated_at FROM clients ORDER BY updated_at DESC LIMIT 1`

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
