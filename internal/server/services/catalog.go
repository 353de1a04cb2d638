package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordersync/internal/validation"
)

// CatalogService manages the part types parts are priced from.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager) *CatalogService {
	return &CatalogService{db: db, repomanager: m}
}

func (s *CatalogService) List(ctx context.Context) ([]models.PartType, error) {
	var out []models.PartType
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		var err error
		out, err = s.repomanager.PartTypes(s.db).List(ctx)
		return err
	})
	return out, err
}

// Create adds a part type; a name already in the catalog is a conflict.
func (s *CatalogService) Create(ctx context.Context, name string, defaultValue models.Money) (*models.PartType, error) {
	v := validation.Violations{}
	name = strings.TrimSpace(name)
	v.Required("nome", name)
	v.MaxLen("nome", name, 100)
	v.NonNegative("valorPadrao", int64(defaultValue))
	if err := v.Err(); err != nil {
		return nil, err
	}

	repo := s.repomanager.PartTypes(s.db)

	id, err := repo.Create(ctx, &models.PartType{Name: name, DefaultValue: defaultValue})
	if err != nil {
		return nil, fmt.Errorf("part type %q: %w", name, err)
	}

	return repo.Get(ctx, id)
}
