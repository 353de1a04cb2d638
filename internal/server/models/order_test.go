package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderTree_GroupsAndTotals(t *testing.T) {
	deleted := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	order := &Order{ID: 10, LocalID: "os-1", ClientID: 1}
	client := &Client{ID: 1, Name: "ACME"}
	vehicles := []Vehicle{
		{ID: 100, LocalID: "v-1", OrderID: 10},
		{ID: 101, LocalID: "v-2", OrderID: 10},
	}
	parts := []Part{
		{ID: 1000, VehicleID: 100, Value: 10000},
		{ID: 1001, VehicleID: 100, Value: 2550},
		{ID: 1002, VehicleID: 100, Value: 999, Audit: Audit{DeletedAt: &deleted}},
		{ID: 1003, VehicleID: 999, Value: 5},
	}

	tree := BuildOrderTree(order, client, vehicles, parts)

	require.Len(t, tree.Vehicles, 2)
	assert.Len(t, tree.Vehicles[0].Parts, 3)
	assert.Equal(t, Money(12550), tree.Vehicles[0].Total)
	assert.NotNil(t, tree.Vehicles[1].Parts, "vehicles without parts get an empty slice")
	assert.Empty(t, tree.Vehicles[1].Parts)
	assert.Equal(t, Money(12550), tree.Total)
	assert.Equal(t, "ACME", tree.Client.Name)
}

func TestEntityType_ParentType(t *testing.T) {
	p, ok := EntityPart.ParentType()
	assert.True(t, ok)
	assert.Equal(t, EntityVehicle, p)

	p, ok = EntityVehicle.ParentType()
	assert.True(t, ok)
	assert.Equal(t, EntityOrder, p)

	p, ok = EntityOrder.ParentType()
	assert.True(t, ok)
	assert.Equal(t, EntityClient, p)

	_, ok = EntityClient.ParentType()
	assert.False(t, ok)
}
