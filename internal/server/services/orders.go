package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/server/config"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ordersync/internal/validation"
)

// OrderInput is an order submission. A zero Date means today (UTC).
type OrderInput struct {
	LocalID string
	Client  ParentRef
	Date    time.Time
}

type VehicleInput struct {
	LocalID string
	Order   ParentRef
	Plate   string
	Model   string
	Color   string
}

// PartInput is a part submission. A nil Value prices the part at its part
// type's default value.
type PartInput struct {
	LocalID     string
	Vehicle     ParentRef
	PartTypeID  int64
	Value       *models.Money
	Description string
}

// OrderService owns service orders and everything nested in them. Every
// write returns the whole order tree as stored after the commit.
type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	reconciler  *Reconciler
	strict      bool
	now         func() time.Time
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, r *Reconciler, cfg *config.Config) *OrderService {
	return &OrderService{
		db:          db,
		repomanager: m,
		reconciler:  r,
		strict:      cfg.StrictValidation,
		now:         utcNow,
	}
}

func (s *OrderService) SubmitOrder(ctx context.Context, in OrderInput) (*models.OrderTree, bool, error) {
	if in.Date.IsZero() {
		in.Date = s.now()
	}
	in.Date = dateOnly(in.Date)
	if in.LocalID == "" {
		in.LocalID = uuid.NewString()
	}

	res, err := s.reconciler.Reconcile(ctx, &orderTarget{in: in})
	if err != nil {
		return nil, false, err
	}

	tree, err := s.Get(ctx, res.ServerID, false)
	if err != nil {
		return nil, false, err
	}
	return tree, res.Created, nil
}

func (s *OrderService) SubmitVehicle(ctx context.Context, in VehicleInput) (*models.OrderTree, bool, error) {
	v := validation.Violations{}

	in.Plate = validation.NormalizePlate(in.Plate)
	in.Model = strings.TrimSpace(in.Model)
	in.Color = strings.TrimSpace(in.Color)

	v.Required("placa", in.Plate)
	if in.Plate != "" && s.strict && !validation.ValidPlate(in.Plate) {
		v.Add("placa", "is invalid")
	}
	v.Required("modelo", in.Model)
	v.MaxLen("modelo", in.Model, 100)
	v.MaxLen("cor", in.Color, 50)
	if err := v.Err(); err != nil {
		return nil, false, err
	}
	if in.LocalID == "" {
		in.LocalID = uuid.NewString()
	}

	res, err := s.reconciler.Reconcile(ctx, &vehicleTarget{in: in})
	if err != nil {
		return nil, false, err
	}

	tree, err := s.treeOfVehicle(ctx, res.ServerID)
	if err != nil {
		return nil, false, err
	}
	return tree, res.Created, nil
}

func (s *OrderService) SubmitPart(ctx context.Context, in PartInput) (*models.OrderTree, bool, error) {
	v := validation.Violations{}

	in.Description = strings.TrimSpace(in.Description)
	if in.PartTypeID <= 0 {
		v.Add("tipoPecaId", "is required")
	}
	if in.Value != nil {
		v.NonNegative("valor", int64(*in.Value))
	}
	v.MaxLen("descricao", in.Description, 500)
	if err := v.Err(); err != nil {
		return nil, false, err
	}
	if in.LocalID == "" {
		in.LocalID = uuid.NewString()
	}

	res, err := s.reconciler.Reconcile(ctx, &partTarget{in: in})
	if err != nil {
		return nil, false, err
	}

	tree, err := s.treeOfPart(ctx, res.ServerID)
	if err != nil {
		return nil, false, err
	}
	return tree, res.Created, nil
}

// RemovePart soft-deletes the part and returns the order it belonged to.
// Removing an already removed part is not an error.
func (s *OrderService) RemovePart(ctx context.Context, id int64) (*models.OrderTree, error) {
	var orderID int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := newRepos(s.repomanager, tx)

		p, err := repos.Parts().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("part %d: %w", id, err)
		}
		veh, err := repos.Vehicles().Get(ctx, p.VehicleID)
		if err != nil {
			return fmt.Errorf("vehicle %d: %w", p.VehicleID, err)
		}
		orderID = veh.OrderID

		now := s.now()
		removed, err := repos.Parts().SoftDelete(ctx, id, now)
		if err != nil {
			return err
		}
		if removed {
			return repos.Orders().Touch(ctx, orderID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, orderID, false)
}

// Get loads the order with its client, vehicles and parts. Soft-deleted
// vehicles and parts are left out unless includeDeleted is set.
func (s *OrderService) Get(ctx context.Context, id int64, includeDeleted bool) (*models.OrderTree, error) {
	var tree *models.OrderTree
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		o, err := s.repomanager.Orders(s.db).Get(ctx, id)
		if err != nil {
			return err
		}
		tree, err = s.loadTree(ctx, o, includeDeleted)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", id, err)
	}
	return tree, nil
}

// List returns order trees; since works as in ClientService.List.
func (s *OrderService) List(ctx context.Context, includeDeleted bool, since *time.Time) ([]*models.OrderTree, error) {
	repo := s.repomanager.Orders(s.db)

	var out []*models.OrderTree
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		var (
			list []models.Order
			err  error
		)
		if since != nil {
			list, err = repo.ListChangedSince(ctx, NormalizeSince(*since))
			includeDeleted = true
		} else {
			list, err = repo.List(ctx, includeDeleted)
		}
		if err != nil {
			return err
		}

		out = make([]*models.OrderTree, 0, len(list))
		for i := range list {
			tree, err := s.loadTree(ctx, &list[i], includeDeleted)
			if err != nil {
				return err
			}
			out = append(out, tree)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) loadTree(ctx context.Context, o *models.Order, includeDeleted bool) (*models.OrderTree, error) {
	repos := newRepos(s.repomanager, s.db)

	c, err := repos.Clients().Get(ctx, o.ClientID)
	if err != nil {
		return nil, fmt.Errorf("client %d: %w", o.ClientID, err)
	}
	vs, err := repos.Vehicles().ListByOrder(ctx, o.ID, includeDeleted)
	if err != nil {
		return nil, err
	}
	ps, err := repos.Parts().ListByOrder(ctx, o.ID, includeDeleted)
	if err != nil {
		return nil, err
	}

	return models.BuildOrderTree(o, c, vs, ps), nil
}

func (s *OrderService) treeOfVehicle(ctx context.Context, vehicleID int64) (*models.OrderTree, error) {
	var orderID int64
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		v, err := s.repomanager.Vehicles(s.db).Get(ctx, vehicleID)
		if err != nil {
			return err
		}
		orderID = v.OrderID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vehicle %d: %w", vehicleID, err)
	}
	return s.Get(ctx, orderID, false)
}

func (s *OrderService) treeOfPart(ctx context.Context, partID int64) (*models.OrderTree, error) {
	var vehicleID int64
	err := dbx.RetryRead(ctx, dbx.DefaultReadRetries, func(ctx context.Context) error {
		p, err := s.repomanager.Parts(s.db).Get(ctx, partID)
		if err != nil {
			return err
		}
		vehicleID = p.VehicleID
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("part %d: %w", partID, err)
	}
	return s.treeOfVehicle(ctx, vehicleID)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type orderTarget struct {
	in OrderInput
}

func (t *orderTarget) EntityType() models.EntityType { return models.EntityOrder }
func (t *orderTarget) LocalID() string               { return t.in.LocalID }
func (t *orderTarget) Parent() ParentRef             { return t.in.Client }

func (t *orderTarget) ParentOf(ctx context.Context, repos Repos, id int64) (int64, error) {
	o, err := repos.Orders().Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return o.ClientID, nil
}

func (t *orderTarget) Insert(ctx context.Context, repos Repos, clientID int64, now time.Time) (int64, error) {
	return repos.Orders().Create(ctx, &models.Order{
		LocalID:  t.in.LocalID,
		ClientID: clientID,
		Date:     t.in.Date,
		Audit:    models.Audit{CreatedAt: now, UpdatedAt: now},
	})
}

func (t *orderTarget) Update(ctx context.Context, repos Repos, id, clientID int64, now time.Time) error {
	return repos.Orders().Update(ctx, &models.Order{
		ID:       id,
		ClientID: clientID,
		Date:     t.in.Date,
		Audit:    models.Audit{UpdatedAt: now},
	})
}

type vehicleTarget struct {
	in VehicleInput
}

func (t *vehicleTarget) EntityType() models.EntityType { return models.EntityVehicle }
func (t *vehicleTarget) LocalID() string               { return t.in.LocalID }
func (t *vehicleTarget) Parent() ParentRef             { return t.in.Order }

func (t *vehicleTarget) ParentOf(ctx context.Context, repos Repos, id int64) (int64, error) {
	v, err := repos.Vehicles().Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return v.OrderID, nil
}

func (t *vehicleTarget) record(id, orderID int64, now time.Time) *models.Vehicle {
	return &models.Vehicle{
		ID:      id,
		LocalID: t.in.LocalID,
		OrderID: orderID,
		Plate:   t.in.Plate,
		Model:   t.in.Model,
		Color:   t.in.Color,
		Audit:   models.Audit{CreatedAt: now, UpdatedAt: now},
	}
}

func (t *vehicleTarget) Insert(ctx context.Context, repos Repos, orderID int64, now time.Time) (int64, error) {
	id, err := repos.Vehicles().Create(ctx, t.record(0, orderID, now))
	if err != nil {
		return 0, err
	}
	return id, repos.Orders().Touch(ctx, orderID, now)
}

func (t *vehicleTarget) Update(ctx context.Context, repos Repos, id, orderID int64, now time.Time) error {
	if err := repos.Vehicles().Update(ctx, t.record(id, orderID, now)); err != nil {
		return err
	}
	return repos.Orders().Touch(ctx, orderID, now)
}

type partTarget struct {
	in PartInput
}

func (t *partTarget) EntityType() models.EntityType { return models.EntityPart }
func (t *partTarget) LocalID() string               { return t.in.LocalID }
func (t *partTarget) Parent() ParentRef             { return t.in.Vehicle }

func (t *partTarget) ParentOf(ctx context.Context, repos Repos, id int64) (int64, error) {
	p, err := repos.Parts().Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.VehicleID, nil
}

// record resolves the part type, which also prices parts sent without a value.
func (t *partTarget) record(ctx context.Context, repos Repos, id, vehicleID int64, now time.Time) (*models.Part, error) {
	pt, err := repos.PartTypes().Get(ctx, t.in.PartTypeID)
	if err != nil {
		return nil, fmt.Errorf("part type %d: %w", t.in.PartTypeID, err)
	}

	value := pt.DefaultValue
	if t.in.Value != nil {
		value = *t.in.Value
	}

	return &models.Part{
		ID:          id,
		LocalID:     t.in.LocalID,
		VehicleID:   vehicleID,
		PartTypeID:  pt.ID,
		Value:       value,
		Description: t.in.Description,
		Audit:       models.Audit{CreatedAt: now, UpdatedAt: now},
	}, nil
}

func (t *partTarget) touchOrder(ctx context.Context, repos Repos, vehicleID int64, now time.Time) error {
	v, err := repos.Vehicles().Get(ctx, vehicleID)
	if err != nil {
		return err
	}
	return repos.Orders().Touch(ctx, v.OrderID, now)
}

func (t *partTarget) Insert(ctx context.Context, repos Repos, vehicleID int64, now time.Time) (int64, error) {
	p, err := t.record(ctx, repos, 0, vehicleID, now)
	if err != nil {
		return 0, err
	}
	id, err := repos.Parts().Create(ctx, p)
	if err != nil {
		return 0, err
	}
	return id, t.touchOrder(ctx, repos, vehicleID, now)
}

func (t *partTarget) Update(ctx context.Context, repos Repos, id, vehicleID int64, now time.Time) error {
	p, err := t.record(ctx, repos, id, vehicleID, now)
	if err != nil {
		return err
	}
	if err := repos.Parts().Update(ctx, p); err != nil {
		return err
	}
	return t.touchOrder(ctx, repos, vehicleID, now)
}
