package models

import "time"

type Order struct {
	ID       int64
	LocalID  string
	ClientID int64
	Date     time.Time
	Audit
}

// OrderTree is an order with its client summary and the nested vehicles and
// parts, as returned by every order endpoint.
type OrderTree struct {
	Order
	Client   *Client
	Vehicles []VehicleTree
	Total    Money
}

type VehicleTree struct {
	Vehicle
	Parts []Part
	Total Money
}

// BuildOrderTree groups parts under their vehicles and computes totals from
// active parts only.
func BuildOrderTree(order *Order, client *Client, vehicles []Vehicle, parts []Part) *OrderTree {
	byVehicle := make(map[int64][]Part, len(vehicles))
	for _, p := range parts {
		byVehicle[p.VehicleID] = append(byVehicle[p.VehicleID], p)
	}

	tree := &OrderTree{Order: *order, Client: client, Vehicles: make([]VehicleTree, 0, len(vehicles))}
	for _, v := range vehicles {
		vt := VehicleTree{Vehicle: v, Parts: byVehicle[v.ID]}
		if vt.Parts == nil {
			vt.Parts = []Part{}
		}
		for _, p := range vt.Parts {
			if p.Active() {
				vt.Total += p.Value
			}
		}
		if v.Active() {
			tree.Total += vt.Total
		}
		tree.Vehicles = append(tree.Vehicles, vt)
	}
	return tree
}
