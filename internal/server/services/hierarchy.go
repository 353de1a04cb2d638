package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/validation"
)

// ParentRef names a parent record by server id, by the local id the
// client gave it, or both.
type ParentRef struct {
	ID      int64
	LocalID string
}

// parentFields are the request fields a parent reference is read from, used
// in validation messages.
var parentFields = map[models.EntityType]string{
	models.EntityClient:  "clienteId",
	models.EntityOrder:   "ordemServicoId",
	models.EntityVehicle: "veiculoId",
}

// HierarchyValidator enforces that every child hangs from an existing,
// active parent of the right type.
type HierarchyValidator struct{}

// ResolveParent turns ref into the parent's server id. A local id must be
// bound already; when both forms are given they must name the same record.
func (h *HierarchyValidator) ResolveParent(ctx context.Context, repos Repos, child models.EntityType, ref ParentRef) (int64, error) {
	parentType, ok := child.ParentType()
	if !ok {
		return 0, nil
	}

	if ref.LocalID == "" {
		if ref.ID <= 0 {
			return 0, validation.Field(parentFields[parentType], "is required")
		}
		return ref.ID, nil
	}

	id, found, err := repos.LocalKeys().Resolve(ctx, parentType, ref.LocalID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%s with localId %q: %w", parentType, ref.LocalID, common.ErrorNotFound)
	}
	if ref.ID > 0 && ref.ID != id {
		return 0, fmt.Errorf("%s id %d does not match localId %q (id %d): %w",
			parentType, ref.ID, ref.LocalID, id, common.ErrConflict)
	}

	return id, nil
}

// RequireParent fails with common.ErrorNotFound when the parent of a child
// of type child is missing or soft-deleted.
func (h *HierarchyValidator) RequireParent(ctx context.Context, repos Repos, child models.EntityType, parentID int64) error {
	parentType, ok := child.ParentType()
	if !ok {
		return nil
	}

	var (
		audit models.Audit
		err   error
	)
	switch parentType {
	case models.EntityClient:
		var c *models.Client
		if c, err = repos.Clients().Get(ctx, parentID); err == nil {
			audit = c.Audit
		}
	case models.EntityOrder:
		var o *models.Order
		if o, err = repos.Orders().Get(ctx, parentID); err == nil {
			audit = o.Audit
		}
	case models.EntityVehicle:
		var v *models.Vehicle
		if v, err = repos.Vehicles().Get(ctx, parentID); err == nil {
			audit = v.Audit
		}
	}
	if err != nil {
		return fmt.Errorf("%s %d: %w", parentType, parentID, err)
	}
	if !audit.Active() {
		return fmt.Errorf("%s %d is deleted: %w", parentType, parentID, common.ErrorNotFound)
	}

	return nil
}
