package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/config"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordersync/internal/validation"
)

// ClientInput is a client submission. An empty LocalID makes the call a
// one-shot creation.
type ClientInput struct {
	LocalID    string
	Name       string
	TradeName  string
	PersonType models.PersonType
	CPF        string
	CNPJ       string
	Email      string
	Contact    string
}

type ClientService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	reconciler  *Reconciler
	strict      bool
	now         func() time.Time
}

func NewClientService(db *sql.DB, m repomanager.RepositoryManager, r *Reconciler, cfg *config.Config) *ClientService {
	return &ClientService{
		db:          db,
		repomanager: m,
		reconciler:  r,
		strict:      cfg.StrictValidation,
		now:         utcNow,
	}
}

// Submit creates or updates the client keyed by in.LocalID and returns its
// stored state.
func (s *ClientService) Submit(ctx context.Context, in ClientInput) (*models.Client, bool, error) {
	in, err := s.normalize(in)
	if err != nil {
		return nil, false, err
	}
	if in.LocalID == "" {
		in.LocalID = uuid.NewString()
	}

	res, err := s.reconciler.Reconcile(ctx, &clientTarget{in: in})
	if err != nil {
		return nil, false, err
	}

	c, err := s.Get(ctx, res.ServerID)
	if err != nil {
		return nil, false, err
	}
	return c, res.Created, nil
}

// Get returns the client, soft-deleted or not.
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	var c *models.Client
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		var err error
		c, err = s.repomanager.Clients(s.db).Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	return c, nil
}

// List returns active clients, or every client when includeDeleted is set.
// With since, it returns everything changed after the normalized instant,
// deleted rows included, so offline replicas learn about removals.
func (s *ClientService) List(ctx context.Context, includeDeleted bool, since *time.Time) ([]models.Client, error) {
	repo := s.repomanager.Clients(s.db)

	var out []models.Client
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		var err error
		if since != nil {
			out, err = repo.ListChangedSince(ctx, NormalizeSince(*since))
		} else {
			out, err = repo.List(ctx, includeDeleted)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes the client. Deleting an already deleted client
// succeeds without changing it.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Clients(s.db)

	if _, err := repo.Get(ctx, id); err != nil {
		return fmt.Errorf("client %d: %w", id, err)
	}

	if _, err := repo.SoftDelete(ctx, id, s.now()); err != nil {
		return fmt.Errorf("error deleting client: %w", err)
	}

	return nil
}

func (s *ClientService) normalize(in ClientInput) (ClientInput, error) {
	v := validation.Violations{}

	in.Name = strings.TrimSpace(in.Name)
	in.TradeName = strings.TrimSpace(in.TradeName)
	in.Email = strings.TrimSpace(in.Email)
	in.Contact = strings.TrimSpace(in.Contact)
	in.CPF = validation.OnlyDigits(in.CPF)
	in.CNPJ = validation.OnlyDigits(in.CNPJ)

	v.Required("razaoSocial", in.Name)
	v.MaxLen("razaoSocial", in.Name, 200)
	v.MaxLen("nomeFantasia", in.TradeName, 200)
	v.MaxLen("contato", in.Contact, 100)

	if in.PersonType == "" {
		in.PersonType = models.PersonCompany
	}
	switch in.PersonType {
	case models.PersonIndividual:
		if in.CPF != "" && s.strict && !validation.ValidCPF(in.CPF) {
			v.Add("cpf", "is invalid")
		}
	case models.PersonCompany:
		if in.CNPJ != "" && s.strict && !validation.ValidCNPJ(in.CNPJ) {
			v.Add("cnpj", "is invalid")
		}
	default:
		v.Add("tipoPessoa", "must be FISICA or JURIDICA")
	}

	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			v.Add("email", "is invalid")
		}
	}

	return in, v.Err()
}

type clientTarget struct {
	in ClientInput
}

func (t *clientTarget) EntityType() models.EntityType { return models.EntityClient }
func (t *clientTarget) LocalID() string               { return t.in.LocalID }
func (t *clientTarget) Parent() ParentRef             { return ParentRef{} }

func (t *clientTarget) ParentOf(context.Context, Repos, int64) (int64, error) { return 0, nil }

func (t *clientTarget) record(id int64, now time.Time) *models.Client {
	return &models.Client{
		ID:         id,
		LocalID:    t.in.LocalID,
		Name:       t.in.Name,
		TradeName:  t.in.TradeName,
		PersonType: t.in.PersonType,
		CPF:        t.in.CPF,
		CNPJ:       t.in.CNPJ,
		Email:      t.in.Email,
		Contact:    t.in.Contact,
		Audit:      models.Audit{CreatedAt: now, UpdatedAt: now},
	}
}

func (t *clientTarget) Insert(ctx context.Context, repos Repos, _ int64, now time.Time) (int64, error) {
	return repos.Clients().Create(ctx, t.record(0, now))
}

func (t *clientTarget) Update(ctx context.Context, repos Repos, id, _ int64, now time.Time) error {
	if err := repos.Clients().Update(ctx, t.record(id, now)); err != nil {
		return fmt.Errorf("client %d: %w", id, err)
	}
	return nil
}
