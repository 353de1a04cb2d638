package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/ordersync/internal/common"
	"github.com/dmitrijs2005/ordersync/internal/server/config"
	"github.com/dmitrijs2005/ordersync/internal/server/models"
	"github.com/dmitrijs2005/ordersync/internal/validation"
)

func TestClients_Normalize(t *testing.T) {
	strict := &ClientService{strict: true}
	lenient := &ClientService{strict: false}

	tests := []struct {
		name    string
		svc     *ClientService
		in      ClientInput
		field   string
		wantErr bool
	}{
		{name: "valid individual", svc: strict, in: validClient("c")},
		{name: "missing name", svc: strict, in: ClientInput{PersonType: models.PersonCompany}, field: "razaoSocial", wantErr: true},
		{name: "bad cpf", svc: strict, in: ClientInput{Name: "A", PersonType: models.PersonIndividual, CPF: "123.456.789-01"}, field: "cpf", wantErr: true},
		{name: "bad cpf lenient", svc: lenient, in: ClientInput{Name: "A", PersonType: models.PersonIndividual, CPF: "12345678901"}},
		{name: "bad cnpj", svc: strict, in: ClientInput{Name: "A", CNPJ: "11.222.333/0001-00"}, field: "cnpj", wantErr: true},
		{name: "good cnpj", svc: strict, in: ClientInput{Name: "A", CNPJ: "11.222.333/0001-81"}},
		{name: "unknown person type", svc: strict, in: ClientInput{Name: "A", PersonType: "OTHER"}, field: "tipoPessoa", wantErr: true},
		{name: "bad email", svc: strict, in: ClientInput{Name: "A", Email: "not-an-email"}, field: "email", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.normalize(tt.in)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrValidation)
			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Violations, tt.field)
		})
	}
}

func TestClients_NormalizeDefaults(t *testing.T) {
	s := &ClientService{strict: true}

	out, err := s.normalize(ClientInput{Name: "  Oficina  ", CNPJ: "11.222.333/0001-81"})
	require.NoError(t, err)
	assert.Equal(t, "Oficina", out.Name)
	assert.Equal(t, models.PersonCompany, out.PersonType)
	assert.Equal(t, "11222333000181", out.CNPJ)
}

func TestClients_DeleteAndList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a, _, err := h.clients.Submit(ctx, validClient("c-a"))
	require.NoError(t, err)
	b, _, err := h.clients.Submit(ctx, validClient("c-b"))
	require.NoError(t, err)

	h.clock.Advance(time.Hour)
	cursor := h.clock.Now()
	h.clock.Advance(time.Hour)
	require.NoError(t, h.clients.Delete(ctx, a.ID))
	deletedAt := h.clock.Now()

	h.clock.Advance(time.Hour)
	require.NoError(t, h.clients.Delete(ctx, a.ID), "idempotent")

	got, err := h.clients.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, deletedAt, *got.DeletedAt, "second delete changes nothing")

	active, err := h.clients.List(ctx, false, nil)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	all, err := h.clients.List(ctx, true, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	changed, err := h.clients.List(ctx, false, &cursor)
	require.NoError(t, err)
	require.Len(t, changed, 1, "only the deleted client changed after the cursor")
	assert.Equal(t, a.ID, changed[0].ID)

	err = h.clients.Delete(ctx, 999)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClients_StrictValidationOff(t *testing.T) {
	h := newHarness(t)
	s := NewClientService(h.db, h.repos, h.rec, &config.Config{StrictValidation: false})

	c, created, err := s.Submit(context.Background(), ClientInput{
		LocalID: "c-x", Name: "Fulano", PersonType: models.PersonIndividual, CPF: "111.111.111-11",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "11111111111", c.CPF)
}
