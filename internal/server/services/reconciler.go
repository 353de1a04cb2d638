package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/dbx"
	"github.com/dmitrijs2005/ordersync/internal/keylock"
	"github.com/dmitrijs2005/ordersync/internal/logging"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/server/repositories/repomanager"
)

// Target is one submitted record, seen by the Reconciler only through its
// key, its parent reference and the two ways of writing it.
type Target interface {
	EntityType() models.EntityType
	LocalID() string
	Parent() ParentRef
	// ParentOf returns the parent id stored for the existing record id.
	ParentOf(ctx context.Context, repos Repos, id int64) (int64, error)
	Insert(ctx context.Context, repos Repos, parentID int64, now time.Time) (int64, error)
	// Update overwrites every value field of record id, keeping its id and
	// creation time.
	Update(ctx context.Context, repos Repos, id, parentID int64, now time.Time) error
}

// Result reports which server id the submission landed on and whether it
// created the record.
type Result struct {
	ServerID int64
	Created  bool
}

var errLostRace = errors.New("local key bound concurrently")

// Reconciler applies submissions idempotently: the first submission of an
// (entity type, local id) pair inserts, every later one updates the same row.
type Reconciler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hierarchy   *HierarchyValidator
	locks       keylock.Locker
	logger      logging.Logger
	now         func() time.Time
}

func NewReconciler(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *Reconciler {
	return &Reconciler{
		db:          db,
		repomanager: m,
		hierarchy:   &HierarchyValidator{},
		logger:      logger,
		now:         utcNow,
	}
}

// Reconcile writes t inside one transaction while holding the in-process
// lock for its key. A bind lost to another process rolls back and is
// re-run once, which then takes the update path.
func (r *Reconciler) Reconcile(ctx context.Context, t Target) (Result, error) {
	if t.LocalID() == "" {
		return Result{}, fmt.Errorf("%s without local id: %w", t.EntityType(), common.ErrValidation)
	}

	key := string(t.EntityType()) + "/" + t.LocalID()
	unlock := r.locks.Lock(key)
	defer unlock()
	r.logger.Debug(ctx, "key lock acquired", "key", key)

	res, err := r.apply(ctx, t)
	if errors.Is(err, errLostRace) {
		r.logger.Warn(ctx, "local key bound concurrently, retrying as update",
			"entity", t.EntityType(), "local_id", t.LocalID())
		res, err = r.apply(ctx, t)
	}
	if err != nil {
		return Result{}, err
	}

	r.logger.Info(ctx, "reconciled",
		"entity", t.EntityType(), "local_id", t.LocalID(), "id", res.ServerID, "created", res.Created)
	return res, nil
}

func (r *Reconciler) apply(ctx context.Context, t Target) (Result, error) {
	var res Result

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repos := newRepos(r.repomanager, tx)
		now := r.now()
		kind := t.EntityType()

		parentID, err := r.hierarchy.ResolveParent(ctx, repos, kind, t.Parent())
		if err != nil {
			return err
		}

		id, found, err := repos.LocalKeys().Resolve(ctx, kind, t.LocalID())
		if err != nil {
			return err
		}

		if found {
			if _, hasParent := kind.ParentType(); hasParent {
				stored, err := t.ParentOf(ctx, repos, id)
				if err != nil {
					return err
				}
				if stored != parentID {
					return fmt.Errorf("%s %q belongs to %d, not %d: %w", kind, t.LocalID(), stored, parentID, common.ErrConflict)
				}
			}
			if err := r.hierarchy.RequireParent(ctx, repos, kind, parentID); err != nil {
				return err
			}
			if err := t.Update(ctx, repos, id, parentID, now); err != nil {
				return err
			}
			res = Result{ServerID: id}
			return nil
		}

		if err := r.hierarchy.RequireParent(ctx, repos, kind, parentID); err != nil {
			return err
		}
		id, err = t.Insert(ctx, repos, parentID, now)
		if err != nil {
			return err
		}
		if err := repos.LocalKeys().Bind(ctx, kind, t.LocalID(), id, now); err != nil {
			if errors.Is(err, common.ErrConflict) {
				return errLostRace
			}
			return err
		}
		res = Result{ServerID: id, Created: true}
		return nil
	})

	return res, err
}
